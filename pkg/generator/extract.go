package generator

import (
	"fmt"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"google.golang.org/genai"
)

// NoImageMessage は画像パーツが見つからなかったときのメッセージです。
const NoImageMessage = "model returned no image; may indicate safety filtering or overly complex input"

// Extract はレスポンスのパーツを先頭から走査し、最初のインライン画像を返します。
// テキストパーツが前後に混ざっていても構いません。
func Extract(resp *genai.GenerateContentResponse) domain.GenerationResult {
	if resp == nil || len(resp.Candidates) == 0 {
		return domain.Failed(domain.NoImageReturned, withBlockReason(resp), nil)
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return domain.Succeeded(domain.NormalizedFromBytes(OutputMediaType, part.InlineData.Data))
			}
		}
	}

	if candidate.FinishReason != "" &&
		candidate.FinishReason != genai.FinishReasonUnspecified &&
		candidate.FinishReason != genai.FinishReasonStop {
		return domain.Failed(domain.NoImageReturned,
			fmt.Sprintf("%s (finish reason: %s)", NoImageMessage, candidate.FinishReason), nil)
	}
	return domain.Failed(domain.NoImageReturned, NoImageMessage, nil)
}

func withBlockReason(resp *genai.GenerateContentResponse) string {
	if resp != nil && resp.PromptFeedback != nil &&
		resp.PromptFeedback.BlockReason != "" &&
		resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return fmt.Sprintf("%s (prompt blocked: %s)", NoImageMessage, resp.PromptFeedback.BlockReason)
	}
	return NoImageMessage
}
