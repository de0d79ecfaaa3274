package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-personalize-kit/pkg/domain"
	"github.com/shouni/gemini-personalize-kit/pkg/imgutil"
)

// FetchError はリモート参照画像の取得失敗です。
// Err には上流のステータスや理由がそのまま残ります。
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not load the image reference: %v. Try uploading the image directly", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Normalizer は ImageReference を (メディアタイプ, ペイロード) の正規形に変換します。
// インライン参照と生ペイロードは I/O を伴わず、失敗しません。
type Normalizer struct {
	httpClient      HTTPClient
	reader          ObjectReader
	cache           ImageCacher
	expiration      time.Duration
	compressQuality int
	urlValidator    URLValidator
}

// NewNormalizer は依存関係を注入して Normalizer を初期化します。
// reader と cache は nil を許容します。
// httpClient 自身が URLValidator を実装していればその検証を使い、なければ IsSafeURL を使います。
func NewNormalizer(httpClient HTTPClient, reader ObjectReader, cache ImageCacher, cacheTTL time.Duration) (*Normalizer, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}

	validator, ok := httpClient.(URLValidator)
	if !ok {
		validator = URLValidatorFunc(IsSafeURL)
	}

	return &Normalizer{
		httpClient:   httpClient,
		reader:       reader,
		cache:        cache,
		expiration:   cacheTTL,
		urlValidator: validator,
	}, nil
}

// UseURLValidator はリモート参照の事前検証を差し替えます。
func (n *Normalizer) UseURLValidator(v URLValidator) {
	if v != nil {
		n.urlValidator = v
	}
}

// EnableCompression はリモートから取得した参照画像を指定品質のJPEGに再圧縮します。
// 0 以下を渡すと無効になります。
func (n *Normalizer) EnableCompression(quality int) {
	n.compressQuality = quality
}

// Normalize は参照の種類に応じて正規化します。
func (n *Normalizer) Normalize(ctx context.Context, ref domain.ImageReference) (domain.NormalizedImage, error) {
	switch ref.Kind() {
	case domain.RefInlineEncoded:
		return domain.NewNormalizedImage(ref.MediaType(), ref.Payload()), nil
	case domain.RefRemoteURL:
		return n.normalizeRemote(ctx, ref.URL())
	default:
		return domain.NewNormalizedImage(domain.DefaultMediaType, ref.Payload()), nil
	}
}

// normalizeRemote は取得したバイナリを一度データURLに変換してから分割します。
// 以降の処理は取得元を意識しません。
func (n *Normalizer) normalizeRemote(ctx context.Context, rawURL string) (domain.NormalizedImage, error) {
	data, err := n.fetchImageData(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像のダウンロードに失敗しました", "url", rawURL, "error", err)
		return domain.NormalizedImage{}, &FetchError{URL: rawURL, Err: err}
	}

	mimeType, ok := imgutil.DetectImageMIME(data)
	if !ok {
		return domain.NormalizedImage{}, &FetchError{
			URL: rawURL,
			Err: fmt.Errorf("fetched content is not an image (%s)", mimeType),
		}
	}

	if n.compressQuality > 0 {
		if compressed, err := imgutil.CompressToJPEG(data, n.compressQuality); err == nil {
			data, mimeType = compressed, "image/jpeg"
		} else {
			slog.WarnContext(ctx, "参照画像の圧縮に失敗したため元データを使います", "url", rawURL, "error", err)
		}
	}

	dataURL := domain.BuildDataURL(mimeType, base64.StdEncoding.EncodeToString(data))
	mediaType, payload, ok := domain.SplitDataURL(dataURL)
	if !ok {
		return domain.NormalizedImage{}, &FetchError{URL: rawURL, Err: fmt.Errorf("empty image payload")}
	}
	return domain.NewNormalizedImage(mediaType, payload), nil
}

func (n *Normalizer) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if n.cache != nil {
		if val, ok := n.cache.Get(cacheKeyReference + rawURL); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", val))
		}
	}

	data, err := n.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if n.cache != nil {
		n.cache.Set(cacheKeyReference+rawURL, data, n.expiration)
	}
	return data, nil
}

func (n *Normalizer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if n.reader == nil {
			return nil, fmt.Errorf("no object reader configured for %s", rawURL)
		}
		rc, err := n.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	safe, err := n.urlValidator.IsSafeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("unsafe reference URL: %w", err)
	}
	if !safe {
		return nil, fmt.Errorf("unsafe reference URL: %s", rawURL)
	}
	return n.httpClient.FetchBytes(ctx, rawURL)
}
