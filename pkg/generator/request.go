package generator

import (
	"github.com/shouni/gemini-personalize-kit/pkg/domain"
)

const (
	StyleLabel    = "STYLE REFERENCE IMAGE (Follow this artistic style, lighting, and texture):"
	IdentityLabel = "IDENTITY PHOTO (Analyze this child's face and gender to personalize the character):"
)

// Part はテキストかインライン画像のどちらか一方です。
type Part struct {
	Text  string
	Image *domain.NormalizedImage
}

// GenerationConfig は出力に関するヒントです。ImageSize は Premium のときだけ設定されます。
type GenerationConfig struct {
	AspectRatio string
	ImageSize   string
}

// GenerationRequest は順序付きのパーツと設定の組です。
type GenerationRequest struct {
	Parts  []Part
	Config GenerationConfig
}

// ModelID はティアに対応するリモートのモデル識別子を返します。
func (o ModelOptions) ModelID(model domain.ModelSelector) string {
	if model == domain.Premium {
		if o.PremiumModel != "" {
			return o.PremiumModel
		}
		return DefaultPremiumModel
	}
	if o.StandardModel != "" {
		return o.StandardModel
	}
	return DefaultStandardModel
}

// BuildRequest はスタイル画像、本人写真、指示文の順でパーツを組み立てます。
// モデルはスタイルが先に来る順序に依存しているため、この並びは変えられません。
func BuildRequest(style, identity domain.NormalizedImage, model domain.ModelSelector, opts ModelOptions) GenerationRequest {
	parts := []Part{
		{Text: StyleLabel},
		{Image: &style},
		{Text: IdentityLabel},
		{Image: &identity},
		{Text: SystemPrompt},
	}

	cfg := GenerationConfig{AspectRatio: OutputAspectRatio}
	if model == domain.Premium {
		cfg.ImageSize = opts.PremiumImageSize
		if cfg.ImageSize == "" {
			cfg.ImageSize = DefaultPremiumImageSize
		}
	}

	return GenerationRequest{Parts: parts, Config: cfg}
}
