package imaging_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"thibou/internal/imaging"
)

func solidImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResizePreservesAspectRatio(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"landscape", 1024, 512, 512, 256},
		{"portrait", 300, 900, 170, 512},
		{"small untouched", 128, 64, 128, 64},
		{"square", 2048, 2048, 512, 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := imaging.Resize(solidImage(tt.width, tt.height), 512)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Fatalf("unexpected size: got %dx%d want %dx%d", got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFetchReturnsPNGDataURI(t *testing.T) {
	payload := encodePNG(t, solidImage(800, 400))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "thibou/test" {
			http.Error(w, "missing user agent", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	processor := imaging.New(imaging.Config{MaxSize: 200, UserAgent: "thibou/test"})
	uri, err := processor.Fetch(context.Background(), server.URL+"/art.png")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %.40s", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 200 || decoded.Bounds().Dy() != 100 {
		t.Fatalf("unexpected output size: %v", decoded.Bounds())
	}
}

func TestFetchFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/slow.png":
			time.Sleep(200 * time.Millisecond)
		default:
			_, _ = w.Write([]byte("not an image"))
		}
	}))
	defer server.Close()

	processor := imaging.New(imaging.Config{Timeout: 50 * time.Millisecond})
	for _, path := range []string{"/missing.png", "/garbage.png", "/slow.png"} {
		if _, err := processor.Fetch(context.Background(), server.URL+path); err == nil {
			t.Fatalf("expected error for %s", path)
		}
	}
	if _, err := processor.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
