package domain

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// DefaultMediaType は接頭辞のない生ペイロードに割り当てるメディアタイプです。
const DefaultMediaType = "image/png"

// dataURLPattern は `data:<mediaType>;base64,<payload>` 形式を判定します。
var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// RefKind は ImageReference が保持している表現の種類です。
type RefKind int

const (
	RefRawPayload RefKind = iota
	RefInlineEncoded
	RefRemoteURL
)

func (k RefKind) String() string {
	switch k {
	case RefInlineEncoded:
		return "inline"
	case RefRemoteURL:
		return "remote_url"
	default:
		return "raw"
	}
}

// ImageReference は呼び出し側から渡される画像参照です。
// インライン、リモートURL、生ペイロードのいずれか1つだけを保持します。
type ImageReference struct {
	kind      RefKind
	mediaType string
	payload   string
	url       string
}

// NewInlineReference はメディアタイプとペイロードが分離済みのインライン参照を作成します。
func NewInlineReference(mediaType, payload string) ImageReference {
	return ImageReference{kind: RefInlineEncoded, mediaType: mediaType, payload: payload}
}

// NewRemoteReference はリモートURL参照を作成します。
func NewRemoteReference(url string) ImageReference {
	return ImageReference{kind: RefRemoteURL, url: url}
}

// NewRawReference は接頭辞のないペイロード参照を作成します。メディアタイプは常に image/png です。
func NewRawReference(payload string) ImageReference {
	return ImageReference{kind: RefRawPayload, mediaType: DefaultMediaType, payload: payload}
}

// ParseReference はホスト側が保持している文字列を種類ごとに振り分けます。
// 空文字列は「デフォルトの画風を使う」を意味し、生ペイロードとして扱われます。
func ParseReference(s string) ImageReference {
	switch {
	case strings.HasPrefix(s, "data:"):
		if mediaType, payload, ok := SplitDataURL(s); ok {
			return NewInlineReference(mediaType, payload)
		}
		return NewRawReference(s)
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "gs://"):
		return NewRemoteReference(s)
	default:
		return NewRawReference(s)
	}
}

func (r ImageReference) Kind() RefKind     { return r.kind }
func (r ImageReference) MediaType() string { return r.mediaType }
func (r ImageReference) Payload() string   { return r.payload }
func (r ImageReference) URL() string       { return r.url }

// NormalizedImage は (メディアタイプ, base64ペイロード) の正規形です。
// 生成後は変更されません。
type NormalizedImage struct {
	mediaType string
	payload   string
}

// NewNormalizedImage はパイプライン内部からのみ呼ばれることを想定しています。
func NewNormalizedImage(mediaType, payload string) NormalizedImage {
	if mediaType == "" {
		mediaType = DefaultMediaType
	}
	return NormalizedImage{mediaType: mediaType, payload: payload}
}

// NormalizedFromBytes はバイナリを base64 化して NormalizedImage にします。
func NormalizedFromBytes(mediaType string, data []byte) NormalizedImage {
	return NewNormalizedImage(mediaType, base64.StdEncoding.EncodeToString(data))
}

func (n NormalizedImage) MediaType() string { return n.mediaType }
func (n NormalizedImage) Payload() string   { return n.payload }

// DataURL は `data:<mediaType>;base64,<payload>` 形式の文字列を返します。
func (n NormalizedImage) DataURL() string {
	return BuildDataURL(n.mediaType, n.payload)
}

// Bytes はペイロードをデコードしたバイナリを返します。
func (n NormalizedImage) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(n.payload)
}

// SplitDataURL はデータURLをメディアタイプとペイロードに分割します。
func SplitDataURL(s string) (mediaType, payload string, ok bool) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// BuildDataURL はメディアタイプとペイロードからデータURLを組み立てます。
func BuildDataURL(mediaType, payload string) string {
	return "data:" + mediaType + ";base64," + payload
}
