package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
)

// CompressToJPEG は参照画像（PNG, GIF, JPEG等）をJPEG形式に再圧縮します。
// JPEG は透過を持てないため、透過部分は白で塗りつぶしてから変換するのだ。
// quality は 1〜100 に丸められます。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	bounds := src.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flat, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return nil, fmt.Errorf("JPEGへのエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

// DetectImageMIME はバイナリ先頭からメディアタイプを判定します。
// 画像でなければ ok は false です。
func DetectImageMIME(data []byte) (mimeType string, ok bool) {
	mimeType = http.DetectContentType(data)
	return mimeType, strings.HasPrefix(mimeType, "image/")
}
