package generator

import (
	"context"
	"io"
	"time"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"google.golang.org/genai"
)

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// URLValidator はリモート参照を取得してよいかを判定します。
type URLValidator interface {
	IsSafeURL(rawURL string) (bool, error)
}

// URLValidatorFunc は関数を URLValidator として扱います。
type URLValidatorFunc func(rawURL string) (bool, error)

func (f URLValidatorFunc) IsSafeURL(rawURL string) (bool, error) { return f(rawURL) }

// ObjectReader は gs:// などのオブジェクトストレージ上の参照画像を読み込みます。
type ObjectReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// ImageCacher は、取得済みの参照画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// ContentGenerator はリモートの生成サービスに1回だけリクエストを送ります。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory は認証情報に紐づいたクライアントを呼び出しごとに生成します。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// CredentialProvider はホスト側で管理されている認証情報を呼び出し時点で解決します。
// 結果をキャッシュしてはいけません。
type CredentialProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// KeySelector はホストが提供する「APIキーの再選択」機能です。
type KeySelector interface {
	SelectKey(ctx context.Context) error
}

// Recorder はパーソナライズ1回分の結果を記録します。
type Recorder interface {
	RecordPersonalization(model domain.ModelSelector, outcome string, elapsed time.Duration)
}

// ReferenceNormalizer は画像参照を正規形に変換します。
type ReferenceNormalizer interface {
	Normalize(ctx context.Context, ref domain.ImageReference) (domain.NormalizedImage, error)
}

// RequestSubmitter は組み立て済みリクエストを生成サービスへ送信します。
type RequestSubmitter interface {
	Submit(ctx context.Context, req GenerationRequest, model domain.ModelSelector) (*genai.GenerateContentResponse, error)
}

// NoopKeySelector はホストにキー選択機能がない場合の代替です。
type NoopKeySelector struct{}

func (NoopKeySelector) SelectKey(context.Context) error { return nil }

// NoopRecorder は何も記録しません。
type NoopRecorder struct{}

func (NoopRecorder) RecordPersonalization(domain.ModelSelector, string, time.Duration) {}
