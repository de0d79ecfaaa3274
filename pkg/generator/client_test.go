package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func validRequest(model domain.ModelSelector) GenerationRequest {
	style := domain.NormalizedFromBytes("image/png", []byte("style"))
	identity := domain.NormalizedFromBytes("image/jpeg", []byte("identity"))
	return BuildRequest(style, identity, model, DefaultModelOptions())
}

func TestNewGenerationClient(t *testing.T) {
	_, err := NewGenerationClient(nil, (&recordingFactory{}).factory, DefaultModelOptions())
	assert.Error(t, err)

	_, err = NewGenerationClient(&mockCredentials{}, nil, DefaultModelOptions())
	assert.Error(t, err)
}

func TestGenerationClient_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("パーツと設定がSDKの型に変換される", func(t *testing.T) {
		gen := &mockGenerator{}
		f := &recordingFactory{gen: gen}
		client, err := NewGenerationClient(&mockCredentials{}, f.factory, DefaultModelOptions())
		require.NoError(t, err)

		_, err = client.Submit(ctx, validRequest(domain.Premium), domain.Premium)

		require.NoError(t, err)
		assert.Equal(t, DefaultPremiumModel, gen.lastModel)
		require.Len(t, gen.lastContents, 1)
		assert.Equal(t, genai.RoleUser, gen.lastContents[0].Role)

		parts := gen.lastContents[0].Parts
		require.Len(t, parts, 5)
		assert.Equal(t, StyleLabel, parts[0].Text)
		assert.Equal(t, []byte("style"), parts[1].InlineData.Data)
		assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
		assert.Equal(t, IdentityLabel, parts[2].Text)
		assert.Equal(t, []byte("identity"), parts[3].InlineData.Data)
		assert.Equal(t, "image/jpeg", parts[3].InlineData.MIMEType)
		assert.Equal(t, SystemPrompt, parts[4].Text)

		require.NotNil(t, gen.lastConfig.ImageConfig)
		assert.Equal(t, "1:1", gen.lastConfig.ImageConfig.AspectRatio)
		assert.Equal(t, DefaultPremiumImageSize, gen.lastConfig.ImageConfig.ImageSize)
	})

	t.Run("Standard では解像度ヒントを送らない", func(t *testing.T) {
		gen := &mockGenerator{}
		f := &recordingFactory{gen: gen}
		client, _ := NewGenerationClient(&mockCredentials{}, f.factory, DefaultModelOptions())

		_, err := client.Submit(ctx, validRequest(domain.Standard), domain.Standard)

		require.NoError(t, err)
		assert.Equal(t, DefaultStandardModel, gen.lastModel)
		assert.Empty(t, gen.lastConfig.ImageConfig.ImageSize)
	})

	t.Run("認証情報は呼び出しごとに解決される", func(t *testing.T) {
		gen := &mockGenerator{}
		f := &recordingFactory{gen: gen}
		creds := &mockCredentials{keys: []string{"key-1", "key-2"}}
		client, _ := NewGenerationClient(creds, f.factory, DefaultModelOptions())

		_, err := client.Submit(ctx, validRequest(domain.Standard), domain.Standard)
		require.NoError(t, err)
		_, err = client.Submit(ctx, validRequest(domain.Standard), domain.Standard)
		require.NoError(t, err)

		assert.Equal(t, 2, creds.calls)
		assert.Equal(t, []string{"key-1", "key-2"}, f.keys, "ローテーション後のキーで新しいクライアントが作られるのだ")
	})

	t.Run("サービスエラーはリトライせずそのまま返る", func(t *testing.T) {
		apiErr := genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"}
		gen := &mockGenerator{
			generateFunc: func(string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, apiErr
			},
		}
		f := &recordingFactory{gen: gen}
		client, _ := NewGenerationClient(&mockCredentials{}, f.factory, DefaultModelOptions())

		_, err := client.Submit(ctx, validRequest(domain.Standard), domain.Standard)

		assert.Equal(t, 1, gen.calls)
		var got genai.APIError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, 503, got.Code)
	})

	t.Run("認証情報の取得失敗はラップされて返る", func(t *testing.T) {
		credErr := errors.New("no key selected")
		f := &recordingFactory{gen: &mockGenerator{}}
		client, _ := NewGenerationClient(&mockCredentials{err: credErr}, f.factory, DefaultModelOptions())

		_, err := client.Submit(ctx, validRequest(domain.Standard), domain.Standard)

		assert.ErrorIs(t, err, credErr)
		assert.Empty(t, f.keys)
	})

	t.Run("デコードできないペイロードは送信前に失敗する", func(t *testing.T) {
		gen := &mockGenerator{}
		f := &recordingFactory{gen: gen}
		creds := &mockCredentials{}
		client, _ := NewGenerationClient(creds, f.factory, DefaultModelOptions())
		bad := domain.NewNormalizedImage("image/png", "%%%not-base64%%%")
		req := BuildRequest(bad, bad, domain.Standard, DefaultModelOptions())

		_, err := client.Submit(ctx, req, domain.Standard)

		assert.ErrorIs(t, err, ErrMalformedInput)
		assert.Zero(t, gen.calls)
		assert.Zero(t, creds.calls)
	})
}

func TestDecodePayload(t *testing.T) {
	data, err := decodePayload("aGVsbG8")
	require.NoError(t, err, "パディングなしも受け付けるのだ")
	assert.Equal(t, []byte("hello"), data)

	_, err = decodePayload("")
	assert.Error(t, err)
}
