package generator

const (
	DefaultStandardModel    = "gemini-2.5-flash-image"
	DefaultPremiumModel     = "gemini-3-pro-image-preview"
	DefaultPremiumImageSize = "2K"
	OutputAspectRatio       = "1:1"
	OutputMediaType         = "image/png"

	DefaultCompressionQuality = 75
	cacheKeyReference         = "reference:"
)

// DefaultStyleDataURL はスタイル参照が未指定のときに使う既定の画風画像です。
const DefaultStyleDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// ModelOptions はモデルティアごとのリモート識別子と設定です。
type ModelOptions struct {
	StandardModel    string
	PremiumModel     string
	PremiumImageSize string
}

// DefaultModelOptions は既定のモデル構成を返します。
func DefaultModelOptions() ModelOptions {
	return ModelOptions{
		StandardModel:    DefaultStandardModel,
		PremiumModel:     DefaultPremiumModel,
		PremiumImageSize: DefaultPremiumImageSize,
	}
}
