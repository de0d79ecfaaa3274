package builder

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shouni/gemini-personalize-kit/pkg/adapters"
	"github.com/shouni/gemini-personalize-kit/pkg/config"
	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"github.com/shouni/gemini-personalize-kit/pkg/generator"
	"github.com/shouni/gemini-personalize-kit/pkg/metrics"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const cacheCleanupInterval = 1 * time.Hour

// options は InitializeXxx に渡す任意の依存関係なのだ。
type options struct {
	httpClient   generator.HTTPClient
	allowLocal   bool
	reader       remoteio.InputReader
	credentials  generator.CredentialProvider
	registerer   prometheus.Registerer
	namespace    string
	recorder     generator.Recorder
	defaultStyle string
}

// Option はビルダーの任意設定です。
type Option func(*options)

// WithHTTPClient は参照画像の取得に使う HTTP クライアントを差し替えます。
// リトライの有無は差し替えたクライアントの責務になります。
func WithHTTPClient(c generator.HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithSkipNetworkValidation は参照URLの SSRF 検証を無効にします。
// 社内ネットワーク上の画像を参照する場合やテスト用です。
func WithSkipNetworkValidation() Option {
	return func(o *options) { o.allowLocal = true }
}

// WithObjectReader は gs:// などの参照を読み込むリーダーを設定します。
// 未設定の場合 gs:// 参照は取得エラーになります。
func WithObjectReader(r remoteio.InputReader) Option {
	return func(o *options) { o.reader = r }
}

// WithCredentials は API キーの解決方法を差し替えます。
// 既定では cfg.APIKeyEnv の環境変数を呼び出しごとに読みます。
func WithCredentials(p generator.CredentialProvider) Option {
	return func(o *options) { o.credentials = p }
}

// WithMetrics は reg に Prometheus のメトリクスを登録して結果を記録します。
func WithMetrics(namespace string, reg prometheus.Registerer) Option {
	return func(o *options) {
		o.namespace = namespace
		o.registerer = reg
	}
}

// WithRecorder は任意の Recorder を設定します。WithMetrics より優先されます。
func WithRecorder(r generator.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithDefaultStyle はスタイル未指定時の画風をデータURLで差し替えます。
func WithDefaultStyle(dataURL string) Option {
	return func(o *options) { o.defaultStyle = dataURL }
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InitializeNormalizer は参照画像の正規化処理を生成します。
// 取得結果は go-cache に cfg.CacheTTL の間保持されます。
func InitializeNormalizer(cfg config.Config, opts ...Option) (*generator.Normalizer, error) {
	return initializeNormalizer(cfg, collect(opts))
}

func initializeNormalizer(cfg config.Config, o *options) (*generator.Normalizer, error) {
	httpClient := o.httpClient
	if httpClient == nil {
		// 取得失敗は1回で確定させる
		httpClient = httpkit.New(cfg.HTTPTimeout,
			httpkit.WithMaxRetries(0),
			httpkit.WithSkipNetworkValidation(o.allowLocal),
		)
	}

	// nil の InputReader をそのまま渡すと typed nil になるため分岐するのだ
	var reader generator.ObjectReader
	if o.reader != nil {
		reader = o.reader
	}

	imgCache := cache.New(cfg.CacheTTL, cacheCleanupInterval)
	n, err := generator.NewNormalizer(httpClient, reader, imgCache, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("Normalizer の初期化に失敗しました: %w", err)
	}
	if o.allowLocal {
		n.UseURLValidator(generator.URLValidatorFunc(allowAll))
	}
	if cfg.CompressReferences {
		n.EnableCompression(cfg.CompressionQuality)
	}
	return n, nil
}

// InitializeGenerationClient は genai を使う送信クライアントを生成します。
func InitializeGenerationClient(cfg config.Config, opts ...Option) (*generator.GenerationClient, error) {
	return initializeGenerationClient(cfg, collect(opts))
}

func initializeGenerationClient(cfg config.Config, o *options) (*generator.GenerationClient, error) {
	creds := o.credentials
	if creds == nil {
		creds = adapters.NewEnvCredentialProvider(cfg.APIKeyEnv)
	}

	factory := adapters.NewGenaiClientFactory(cfg.BaseURL, nil)
	client, err := generator.NewGenerationClient(creds, factory.Factory(), cfg.ModelOptions())
	if err != nil {
		return nil, fmt.Errorf("生成クライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// InitializePersonalizer は本番用の依存関係一式を組み立てた Personalizer を返すのだ。
func InitializePersonalizer(cfg config.Config, opts ...Option) (*generator.Personalizer, error) {
	o := collect(opts)

	normalizer, err := initializeNormalizer(cfg, o)
	if err != nil {
		return nil, err
	}
	client, err := initializeGenerationClient(cfg, o)
	if err != nil {
		return nil, err
	}

	var pOpts []generator.Option
	switch {
	case o.recorder != nil:
		pOpts = append(pOpts, generator.WithRecorder(o.recorder))
	case o.registerer != nil:
		pOpts = append(pOpts, generator.WithRecorder(metrics.NewPrometheusRecorder(o.namespace, o.registerer)))
	}
	if o.defaultStyle != "" {
		pOpts = append(pOpts, generator.WithDefaultStyle(domain.ParseReference(o.defaultStyle)))
	}

	p, err := generator.NewPersonalizer(normalizer, client, cfg.ModelOptions(), pOpts...)
	if err != nil {
		return nil, fmt.Errorf("Personalizer の初期化に失敗しました: %w", err)
	}
	return p, nil
}

func allowAll(string) (bool, error) { return true, nil }
