package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-utils/envutil"
)

// DefaultAPIKeyEnv は API キーを読み出す既定の環境変数名です。
const DefaultAPIKeyEnv = "GEMINI_API_KEY"

// EnvCredentialProvider は呼び出しのたびに環境変数から API キーを読み直します。
// ホストがキーを差し替えた直後の呼び出しでも新しいキーが使われるのだ。
type EnvCredentialProvider struct {
	key string
}

// NewEnvCredentialProvider は key が空なら DefaultAPIKeyEnv を使います。
func NewEnvCredentialProvider(key string) *EnvCredentialProvider {
	if key == "" {
		key = DefaultAPIKeyEnv
	}
	return &EnvCredentialProvider{key: key}
}

func (p *EnvCredentialProvider) APIKey(ctx context.Context) (string, error) {
	apiKey := strings.TrimSpace(envutil.GetEnv(p.key, ""))
	if apiKey == "" {
		return "", fmt.Errorf("環境変数 %s が設定されていません", p.key)
	}
	return apiKey, nil
}

// StaticCredential は固定の API キーを返します。
type StaticCredential string

func (s StaticCredential) APIKey(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrEmptyAPIKey
	}
	return string(s), nil
}

// CredentialFunc はホストの鍵管理を関数として差し込むためのアダプタです。
type CredentialFunc func(ctx context.Context) (string, error)

func (f CredentialFunc) APIKey(ctx context.Context) (string, error) {
	return f(ctx)
}

// KeySelectorFunc はホストのキー選択ダイアログなどを KeySelector として扱います。
type KeySelectorFunc func(ctx context.Context) error

func (f KeySelectorFunc) SelectKey(ctx context.Context) error {
	return f(ctx)
}
