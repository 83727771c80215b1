// Package media turns uploaded contractor avatars into small WebP files and
// stores them in an S3 bucket.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
)

const (
	AvatarSize     = 512
	MaxUploadBytes = 5 << 20
	webpQuality    = 80
)

var (
	ErrInvalidImage = httperr.Invalid("invalid_image", "Upload must be a JPEG, PNG or WebP image")
	ErrTooLarge     = httperr.Invalid("image_too_large", "Image must be 5 MB or smaller")
)

// EncodeAvatar decodes r, scales it to fit within size x size and returns
// it WebP encoded. Images already small enough are not enlarged.
func EncodeAvatar(r io.Reader, size int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	dst := fit(src, size)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, size int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return src
	}

	if w >= h {
		h = h * size / w
		w = size
	} else {
		w = w * size / h
		h = size
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
