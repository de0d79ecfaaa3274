package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvCredentialProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("環境変数の変更が次の呼び出しに反映される", func(t *testing.T) {
		p := NewEnvCredentialProvider("TEST_PERSONALIZE_KEY")

		t.Setenv("TEST_PERSONALIZE_KEY", "old-key")
		k, err := p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "old-key", k)

		t.Setenv("TEST_PERSONALIZE_KEY", "new-key")
		k, err = p.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new-key", k)
	})

	t.Run("未設定ならエラー", func(t *testing.T) {
		t.Setenv("TEST_PERSONALIZE_KEY", "")
		_, err := NewEnvCredentialProvider("TEST_PERSONALIZE_KEY").APIKey(ctx)
		assert.Error(t, err)
	})

	t.Run("名前が空なら GEMINI_API_KEY を読む", func(t *testing.T) {
		t.Setenv(DefaultAPIKeyEnv, "default-key")
		k, err := NewEnvCredentialProvider("").APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "default-key", k)
	})
}

func TestStaticCredential(t *testing.T) {
	k, err := StaticCredential("abc").APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", k)

	_, err = StaticCredential("").APIKey(context.Background())
	assert.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestKeySelectorFunc(t *testing.T) {
	called := false
	sel := KeySelectorFunc(func(ctx context.Context) error {
		called = true
		return errors.New("cancelled")
	})

	err := sel.SelectKey(context.Background())

	assert.True(t, called)
	assert.EqualError(t, err, "cancelled")
}
