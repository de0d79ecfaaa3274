package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-personalize-kit/pkg/adapters"
	"github.com/shouni/gemini-personalize-kit/pkg/generator"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultStandardModel      = generator.DefaultStandardModel
	DefaultPremiumModel       = generator.DefaultPremiumModel
	DefaultPremiumImageSize   = generator.DefaultPremiumImageSize
	DefaultHTTPTimeout        = 30 * time.Second
	DefaultCacheTTL           = 1 * time.Hour
	DefaultCompressionQuality = generator.DefaultCompressionQuality
)

// Config はパーソナライズ処理全体の設定を保持する構造体なのだ。
// API キーそのものは持たず、呼び出しごとに APIKeyEnv から読み直します。
type Config struct {
	StandardModel    string
	PremiumModel     string
	PremiumImageSize string
	APIKeyEnv        string
	BaseURL          string // 空なら SDK の既定エンドポイント

	HTTPTimeout        time.Duration
	CacheTTL           time.Duration
	CompressReferences bool // リモート参照画像をJPEGに再圧縮するか
	CompressionQuality int
}

// DefaultConfig は既定値だけで構成した Config を返します。
func DefaultConfig() Config {
	return Config{
		StandardModel:      DefaultStandardModel,
		PremiumModel:       DefaultPremiumModel,
		PremiumImageSize:   DefaultPremiumImageSize,
		APIKeyEnv:          adapters.DefaultAPIKeyEnv,
		HTTPTimeout:        DefaultHTTPTimeout,
		CacheTTL:           DefaultCacheTTL,
		CompressionQuality: DefaultCompressionQuality,
	}
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 解釈できない値は既定値に戻します。
func LoadConfig() Config {
	d := DefaultConfig()
	return Config{
		StandardModel:      stringEnv("STANDARD_IMAGE_MODEL", d.StandardModel),
		PremiumModel:       stringEnv("PREMIUM_IMAGE_MODEL", d.PremiumModel),
		PremiumImageSize:   stringEnv("PREMIUM_IMAGE_SIZE", d.PremiumImageSize),
		APIKeyEnv:          stringEnv("API_KEY_ENV", d.APIKeyEnv),
		BaseURL:            envutil.GetEnv("GEMINI_BASE_URL", ""),
		HTTPTimeout:        durationEnv("HTTP_TIMEOUT", d.HTTPTimeout),
		CacheTTL:           durationEnv("REFERENCE_CACHE_TTL", d.CacheTTL),
		CompressReferences: envutil.GetEnvAsBool("COMPRESS_REFERENCES", false),
		CompressionQuality: envutil.GetEnvAsInt("COMPRESSION_QUALITY", d.CompressionQuality),
	}
}

// stringEnv は空文字の指定も未設定として扱います。
func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(envutil.GetEnv(key, "")); v != "" {
		return v
	}
	return fallback
}

// ModelOptions は生成クライアントに渡すモデル設定を返します。
func (c Config) ModelOptions() generator.ModelOptions {
	return generator.ModelOptions{
		StandardModel:    c.StandardModel,
		PremiumModel:     c.PremiumModel,
		PremiumImageSize: c.PremiumImageSize,
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(envutil.GetEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("期間の指定を解釈できないため既定値を使います", "key", key, "value", raw)
		return fallback
	}
	return v
}
