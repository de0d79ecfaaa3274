package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shouni/gemini-personalize-kit/pkg/generator"
	"google.golang.org/genai"
)

// ErrEmptyAPIKey は認証情報が空のままクライアントを作ろうとしたことを示します。
// genai は空のキーを環境変数で補完するため、ここで明示的に弾きます。
var ErrEmptyAPIKey = errors.New("API key is empty; select a key before generating")

// GenaiClientFactory は呼び出しごとに genai クライアントを生成する ClientFactory です。
type GenaiClientFactory struct {
	baseURL    string
	httpClient *http.Client
}

// NewGenaiClientFactory は GenaiClientFactory を初期化するのだ。
// baseURL が空なら SDK の既定エンドポイントを使います。
func NewGenaiClientFactory(baseURL string, httpClient *http.Client) *GenaiClientFactory {
	return &GenaiClientFactory{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// New は apiKey に紐づいたクライアントを生成して ContentGenerator として返すのだ。
func (f *GenaiClientFactory) New(ctx context.Context, apiKey string) (generator.ContentGenerator, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: f.httpClient,
	}
	if f.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: f.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}

// Factory は generator.ClientFactory として渡せる関数値を返します。
func (f *GenaiClientFactory) Factory() generator.ClientFactory {
	return f.New
}
