package generator

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"google.golang.org/genai"
)

const (
	QuotaExhaustedMessage   = "Google has set a '0 limit' for image generation on your current API key. This usually happens on 'Free of Charge' projects in certain regions."
	ModelUnavailableMessage = "The selected model is not available for this API key. Try switching to the 'Standard' model or use a different API key."
	SimplerInputMessage     = "The AI model couldn't process these specific images. Try using a simpler, clear photo of the child's face."
)

// Classify は生のエラーを ErrorKind に分類します。
func Classify(err error) domain.ErrorKind {
	if ge := ClassifyError(err); ge != nil {
		return ge.Kind
	}
	return domain.TransportOrServiceError
}

// ClassifyError は生のエラーを分類済みの GenerationError に変換します。
// 判定は順序に依存します。クォータ枯渇のメッセージは "not found" のような
// 曖昧な文言を含むことがあるため、モデル未提供より先に判定します。
func ClassifyError(err error) *domain.GenerationError {
	if err == nil {
		return nil
	}

	var classified *domain.GenerationError
	if errors.As(err, &classified) {
		return classified
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	apiErr, isAPIErr := asAPIError(err)
	var fetchErr *FetchError
	isFetch := errors.As(err, &fetchErr)

	// FetchError は上流の文言に関係なく取得失敗のまま返す。
	switch {
	case isFetch:
		return &domain.GenerationError{Kind: domain.TransportOrServiceError, Message: msg, Err: err}
	case isZeroQuota(lower, apiErr, isAPIErr):
		return &domain.GenerationError{Kind: domain.QuotaExhausted, Message: QuotaExhaustedMessage, Err: err}
	case isModelUnavailable(lower, apiErr, isAPIErr):
		return &domain.GenerationError{Kind: domain.ModelUnavailable, Message: ModelUnavailableMessage, Err: err}
	case isClientError(err, lower, apiErr, isAPIErr):
		return &domain.GenerationError{Kind: domain.TransportOrServiceError, Message: SimplerInputMessage + " (" + msg + ")", Err: err}
	default:
		return &domain.GenerationError{Kind: domain.TransportOrServiceError, Message: msg, Err: err}
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func isZeroQuota(lower string, apiErr genai.APIError, ok bool) bool {
	if ok && (apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED") {
		return true
	}
	return strings.Contains(lower, "limit: 0") ||
		strings.Contains(lower, "quota_limit_zero") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "resource has been exhausted")
}

func isModelUnavailable(lower string, apiErr genai.APIError, ok bool) bool {
	if ok && (apiErr.Code == http.StatusNotFound || apiErr.Status == "NOT_FOUND") {
		return true
	}
	return strings.Contains(lower, "requested entity was not found") ||
		strings.Contains(lower, "is not found for api version")
}

func isClientError(err error, lower string, apiErr genai.APIError, ok bool) bool {
	if errors.Is(err, ErrMalformedInput) {
		return true
	}
	if ok && ((apiErr.Code >= 400 && apiErr.Code < 500) || apiErr.Status == "INVALID_ARGUMENT") {
		return true
	}
	return strings.Contains(lower, "400") || strings.Contains(lower, "invalid_argument")
}
