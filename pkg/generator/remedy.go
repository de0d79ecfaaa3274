package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
)

// UnexpectedErrorMessage は分類済みエラーにメッセージがない場合の表示文言です。
const UnexpectedErrorMessage = "An unexpected error occurred during generation."

// Remedy は失敗分類ごとの対処方法です。表示は呼び出し側の責務です。
type Remedy struct {
	Kind    domain.ErrorKind
	Message string
	// SuggestCredentialReselection が true のとき、APIキーの再選択を促します。
	SuggestCredentialReselection bool
}

// Remediation は失敗結果から対処方法を決めます。
func Remediation(err error) Remedy {
	ge := ClassifyError(err)
	if ge == nil {
		return Remedy{}
	}

	r := Remedy{Kind: ge.Kind, Message: ge.Message}
	if r.Message == "" {
		r.Message = UnexpectedErrorMessage
	}
	switch ge.Kind {
	case domain.QuotaExhausted, domain.ModelUnavailable:
		r.SuggestCredentialReselection = true
	}
	return r
}

// Apply は再選択が必要な場合にホストのキー選択機能を呼び出します。
// 呼び出した場合は true を返します。
func (r Remedy) Apply(ctx context.Context, selector KeySelector) (bool, error) {
	if !r.SuggestCredentialReselection {
		return false, nil
	}
	if selector == nil {
		selector = NoopKeySelector{}
	}
	if err := selector.SelectKey(ctx); err != nil {
		return true, fmt.Errorf("APIキーの再選択に失敗しました: %w", err)
	}
	return true, nil
}
