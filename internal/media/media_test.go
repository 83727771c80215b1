package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/chai2010/webp"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeAvatar_ScalesToFit(t *testing.T) {
	out, err := EncodeAvatar(bytes.NewReader(pngOf(t, 1024, 512)), AvatarSize)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 256 {
		t.Fatalf("expected 512x256, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncodeAvatar_SmallImageKeepsSize(t *testing.T) {
	out, err := EncodeAvatar(bytes.NewReader(pngOf(t, 64, 100)), AvatarSize)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 100 {
		t.Fatalf("small image should not be resized, got %v", b)
	}
}

func TestEncodeAvatar_Rejects(t *testing.T) {
	if _, err := EncodeAvatar(strings.NewReader("definitely not an image"), AvatarSize); err != ErrInvalidImage {
		t.Fatalf("expected invalid image, got %v", err)
	}

	big := io.LimitReader(zeroReader{}, MaxUploadBytes+10)
	_, err := EncodeAvatar(big, AvatarSize)
	if err != ErrTooLarge || httperr.KindOf(err) != httperr.KindInvalidInput {
		t.Fatalf("expected too large, got %v", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type memUploader struct {
	keys []string
}

func (m *memUploader) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if contentType != "image/webp" || len(body) == 0 {
		return "", io.ErrUnexpectedEOF
	}
	m.keys = append(m.keys, key)
	return "https://cdn.example/" + key, nil
}

func TestAvatars_Upload(t *testing.T) {
	up := &memUploader{}
	a := NewAvatars(up)
	id := uuid.New()

	url, err := a.Upload(context.Background(), id, bytes.NewReader(pngOf(t, 32, 32)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(up.keys) != 1 || !strings.HasPrefix(up.keys[0], "avatars/"+id.String()+"/") || !strings.HasSuffix(up.keys[0], ".webp") {
		t.Fatalf("unexpected key %v", up.keys)
	}
	if url != "https://cdn.example/"+up.keys[0] {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestS3Uploader_PutAgainstCompatibleEndpoint(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPut {
			gotPath = r.URL.Path
			gotType = r.Header.Get("Content-Type")
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := NewS3Uploader(S3Options{
		Bucket:          "avatars-bucket",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})

	url, err := u.Put(context.Background(), "avatars/x.webp", []byte("RIFF"), "image/webp")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/avatars-bucket/avatars/x.webp" {
		t.Fatalf("expected path-style request, got %s", gotPath)
	}
	if gotType != "image/webp" {
		t.Fatalf("unexpected content type %s", gotType)
	}
	if url != srv.URL+"/avatars-bucket/avatars/x.webp" {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestS3Uploader_URL(t *testing.T) {
	u := &S3Uploader{opts: S3Options{Bucket: "b", Region: "sa-east-1"}}
	if got := u.URL("k.webp"); got != "https://b.s3.sa-east-1.amazonaws.com/k.webp" {
		t.Fatalf("unexpected url %s", got)
	}
	u.opts.PublicBaseURL = "https://cdn.example/"
	if got := u.URL("k.webp"); got != "https://cdn.example/k.webp" {
		t.Fatalf("unexpected url %s", got)
	}
}
