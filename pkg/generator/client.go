package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"google.golang.org/genai"
)

// ErrMalformedInput は画像ペイロードをデコードできなかったことを示します。
var ErrMalformedInput = errors.New("malformed input image")

// GenerationClient は生成サービスへの1回のラウンドトリップを担当します。
// 認証情報とクライアントは呼び出しごとに解決し、保持しません。
type GenerationClient struct {
	credentials CredentialProvider
	factory     ClientFactory
	models      ModelOptions
}

// NewGenerationClient は依存関係を注入して GenerationClient を初期化します。
func NewGenerationClient(credentials CredentialProvider, factory ClientFactory, models ModelOptions) (*GenerationClient, error) {
	if credentials == nil {
		return nil, fmt.Errorf("credentials (CredentialProvider) is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("factory (ClientFactory) is required")
	}

	return &GenerationClient{
		credentials: credentials,
		factory:     factory,
		models:      models,
	}, nil
}

// Submit はリクエストを送信し、生のレスポンスを返します。リトライはしません。
func (c *GenerationClient) Submit(ctx context.Context, req GenerationRequest, model domain.ModelSelector) (*genai.GenerateContentResponse, error) {
	contents, err := toContents(req.Parts)
	if err != nil {
		return nil, err
	}

	apiKey, err := c.credentials.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("認証情報の取得に失敗しました: %w", err)
	}

	gen, err := c.factory(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	modelID := c.models.ModelID(model)
	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします",
		"model", modelID,
		"parts", len(req.Parts),
		"image_size", req.Config.ImageSize,
	)

	return gen.GenerateContent(ctx, modelID, contents, toGenaiConfig(req.Config))
}

func toContents(parts []Part) ([]*genai.Content, error) {
	out := make([]*genai.Part, 0, len(parts))
	for i, p := range parts {
		if p.Image == nil {
			out = append(out, genai.NewPartFromText(p.Text))
			continue
		}
		data, err := decodePayload(p.Image.Payload())
		if err != nil {
			return nil, fmt.Errorf("%w: part %d: %v", ErrMalformedInput, i, err)
		}
		out = append(out, genai.NewPartFromBytes(data, p.Image.MediaType()))
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}, nil
}

func decodePayload(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
			return raw, nil
		}
		return nil, err
	}
	return data, nil
}

func toGenaiConfig(cfg GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: cfg.AspectRatio,
			ImageSize:   cfg.ImageSize,
		},
	}
}
