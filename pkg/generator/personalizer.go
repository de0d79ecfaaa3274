package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/gemini-personalize-kit/pkg/domain"
)

// ErrMissingIdentity は本人写真が空のまま呼び出されたことを示します。
var ErrMissingIdentity = errors.New("an identity photo is required")

// Personalizer は正規化、組み立て、送信、抽出、分類を順番に実行する入口です。
// 各段階は前段の出力に依存するため並列化はしません。
type Personalizer struct {
	normalizer   ReferenceNormalizer
	client       RequestSubmitter
	models       ModelOptions
	recorder     Recorder
	defaultStyle domain.ImageReference
}

// Option は Personalizer の任意設定です。
type Option func(*Personalizer)

// WithRecorder は結果の記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(p *Personalizer) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithDefaultStyle はスタイル参照が空のときに使う画風を差し替えます。
func WithDefaultStyle(ref domain.ImageReference) Option {
	return func(p *Personalizer) {
		p.defaultStyle = ref
	}
}

// NewPersonalizer は Personalizer を初期化するのだ。
func NewPersonalizer(normalizer ReferenceNormalizer, client RequestSubmitter, models ModelOptions, opts ...Option) (*Personalizer, error) {
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer (ReferenceNormalizer) is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client (RequestSubmitter) is required")
	}

	p := &Personalizer{
		normalizer:   normalizer,
		client:       client,
		models:       models,
		recorder:     NoopRecorder{},
		defaultStyle: domain.ParseReference(DefaultStyleDataURL),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Personalize は本人写真とスタイル参照から合成画像を1枚生成するのだ。
// 失敗は必ず分類済みの GenerationResult として返るのだ。
func (p *Personalizer) Personalize(ctx context.Context, identity, style domain.ImageReference, model domain.ModelSelector) domain.GenerationResult {
	requestID := uuid.NewString()
	logger := slog.With("request_id", requestID, "model", model.String())
	start := time.Now()

	res := p.run(ctx, logger, identity, style, model)

	outcome := "success"
	if res.Success() {
		logger.InfoContext(ctx, "パーソナライズ画像の生成が完了したのだ", "elapsed", time.Since(start))
	} else {
		outcome = res.Kind().String()
		logger.WarnContext(ctx, "パーソナライズ画像の生成に失敗したのだ", "kind", outcome, "error", res.Err())
	}
	p.recorder.RecordPersonalization(model, outcome, time.Since(start))

	return res
}

// PersonalizeDataURLs はホストが文字列で保持している参照をそのまま受け付けます。
func (p *Personalizer) PersonalizeDataURLs(ctx context.Context, identity, style string, model domain.ModelSelector) domain.GenerationResult {
	return p.Personalize(ctx, domain.ParseReference(identity), domain.ParseReference(style), model)
}

func (p *Personalizer) run(ctx context.Context, logger *slog.Logger, identity, style domain.ImageReference, model domain.ModelSelector) domain.GenerationResult {
	if isEmpty(identity) {
		return failure(ErrMissingIdentity)
	}
	if isEmpty(style) {
		logger.DebugContext(ctx, "スタイル参照が未指定のため既定の画風を使うのだ")
		style = p.defaultStyle
	}

	identityImg, err := p.normalizer.Normalize(ctx, identity)
	if err != nil {
		return failure(fmt.Errorf("identity photo: %w", err))
	}
	styleImg, err := p.normalizer.Normalize(ctx, style)
	if err != nil {
		return failure(fmt.Errorf("style reference: %w", err))
	}

	req := BuildRequest(styleImg, identityImg, model, p.models)
	logger.InfoContext(ctx, "AIに送信するパーツ構成が完了したのだ",
		"total_parts", len(req.Parts),
		"style_mime", styleImg.MediaType(),
		"identity_mime", identityImg.MediaType(),
	)

	resp, err := p.client.Submit(ctx, req, model)
	if err != nil {
		return failure(err)
	}
	return Extract(resp)
}

func failure(err error) domain.GenerationResult {
	return domain.GenerationResult{Failure: ClassifyError(err)}
}

func isEmpty(ref domain.ImageReference) bool {
	return ref.Kind() == domain.RefRawPayload && ref.Payload() == ""
}
