package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"thibou/internal/services"
)

const (
	// DefaultMaxSize bounds the longest side of an uploaded image.
	DefaultMaxSize = 512
	// DefaultTimeout bounds a single image download.
	DefaultTimeout = 30 * time.Second

	dataURIPrefix   = "data:image/png;base64,"
	maxDownloadSize = 32 << 20
)

// Config describes the image processor configuration.
type Config struct {
	MaxSize    int
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// Processor downloads remote images and re-encodes them as PNG data URIs.
type Processor struct {
	maxSize   int
	timeout   time.Duration
	userAgent string
	http      *http.Client
}

// New creates a Processor, applying defaults for unset fields.
func New(cfg Config) *Processor {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Processor{
		maxSize:   maxSize,
		timeout:   timeout,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		http:      client,
	}
}

// Fetch downloads the image at url and returns it as a resized PNG data URI.
func (p *Processor) Fetch(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", services.Wrap(services.ErrValidation, "imaging", "fetch", "image url is empty", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "imaging", "fetch", url, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrExternal, "imaging", "fetch", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternal, "imaging", "fetch", fmt.Sprintf("%s returned %s", url, resp.Status), nil)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return "", services.Wrap(services.ErrExternal, "imaging", "decode", url, err)
	}
	return EncodeDataURI(Resize(src, p.maxSize))
}

// Resize converts src to RGBA and scales it so its longest side is at most
// maxSize, preserving the aspect ratio. Smaller images are only converted.
func Resize(src image.Image, maxSize int) *image.RGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	targetW, targetH := width, height

	if longest := max(width, height); maxSize > 0 && longest > maxSize {
		if width >= height {
			targetW = maxSize
			targetH = max(1, height*maxSize/width)
		} else {
			targetH = maxSize
			targetW = max(1, width*maxSize/height)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	if targetW == width && targetH == height {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// EncodeDataURI encodes img as a best-compression PNG data URI.
func EncodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return "", services.Wrap(services.ErrExternal, "imaging", "encode", "png", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
