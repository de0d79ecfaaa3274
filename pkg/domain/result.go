package domain

import (
	"fmt"
	"strings"
)

// ModelSelector は利用するモデルの品質ティアです。
type ModelSelector int

const (
	Standard ModelSelector = iota
	Premium
)

func (m ModelSelector) String() string {
	if m == Premium {
		return "premium"
	}
	return "standard"
}

// ParseModelSelector は "standard" / "premium" (大文字小文字を区別しない) を解釈します。
func ParseModelSelector(s string) (ModelSelector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "flash":
		return Standard, nil
	case "premium", "pro":
		return Premium, nil
	default:
		return Standard, fmt.Errorf("unknown model selector: %q", s)
	}
}

// ErrorKind は呼び出し側が対処方法を選ぶための失敗分類です。
type ErrorKind int

const (
	TransportOrServiceError ErrorKind = iota
	QuotaExhausted
	ModelUnavailable
	NoImageReturned
)

// String は UI 側で分岐に使える安定したコードを返します。
func (k ErrorKind) String() string {
	switch k {
	case QuotaExhausted:
		return "QUOTA_LIMIT_ZERO"
	case ModelUnavailable:
		return "MODEL_UNAVAILABLE"
	case NoImageReturned:
		return "NO_IMAGE_RETURNED"
	default:
		return "SERVICE_ERROR"
	}
}

// GenerationError は分類済みの失敗です。
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerationResult は Success(Image) か Failure のどちらか一方を保持します。
type GenerationResult struct {
	Image   *NormalizedImage
	Failure *GenerationError
}

// Succeeded は画像付きの成功結果を作ります。
func Succeeded(img NormalizedImage) GenerationResult {
	return GenerationResult{Image: &img}
}

// Failed は分類済みエラーから失敗結果を作ります。
func Failed(kind ErrorKind, message string, cause error) GenerationResult {
	return GenerationResult{Failure: &GenerationError{Kind: kind, Message: message, Err: cause}}
}

func (r GenerationResult) Success() bool { return r.Failure == nil && r.Image != nil }

// Err は失敗時に *GenerationError を、成功時に nil を返します。
func (r GenerationResult) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Kind は失敗の分類を返します。成功時の戻り値に意味はありません。
func (r GenerationResult) Kind() ErrorKind {
	if r.Failure == nil {
		return TransportOrServiceError
	}
	return r.Failure.Kind
}
