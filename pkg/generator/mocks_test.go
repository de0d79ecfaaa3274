package generator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
	urls  []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	m.urls = append(m.urls, url)
	return m.data, m.err
}

type mockReader struct {
	data   []byte
	err    error
	opened string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = uri
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

type mockCache struct {
	data map[string]any
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]any)}
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

// mockCredentials は呼び出しのたびに keys を順番に返すのだ。
type mockCredentials struct {
	keys  []string
	err   error
	calls int
}

func (m *mockCredentials) APIKey(ctx context.Context) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if len(m.keys) == 0 {
		return "test-key", nil
	}
	idx := m.calls - 1
	if idx >= len(m.keys) {
		idx = len(m.keys) - 1
	}
	return m.keys[idx], nil
}

type mockGenerator struct {
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls        int
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return imageResponse([]byte("generated-png")), nil
}

// recordingFactory は生成されたクライアントごとに使われたAPIキーを記録するのだ。
type recordingFactory struct {
	gen  *mockGenerator
	keys []string
	err  error
}

func (f *recordingFactory) factory(ctx context.Context, apiKey string) (ContentGenerator, error) {
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.gen, nil
}

type mockRecorder struct {
	outcomes []string
	models   []domain.ModelSelector
}

func (m *mockRecorder) RecordPersonalization(model domain.ModelSelector, outcome string, elapsed time.Duration) {
	m.models = append(m.models, model)
	m.outcomes = append(m.outcomes, outcome)
}

type mockKeySelector struct {
	called bool
	err    error
}

func (m *mockKeySelector) SelectKey(ctx context.Context) error {
	m.called = true
	return m.err
}

// --- Helpers ---

func imageResponse(data []byte, leading ...*genai.Part) *genai.GenerateContentResponse {
	parts := append([]*genai.Part{}, leading...)
	parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}})
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}, FinishReason: genai.FinishReasonStop}},
	}
}

// testPNG はデコード可能な小さなPNG画像を返すのだ。
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 30), uint8(y * 30), 128, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
