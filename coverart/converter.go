package coverart

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/qeesung/image2ascii/convert"
)

// Options control the size and styling of the rendered art
type Options struct {
	Width   int
	Height  int
	Colored bool
	// Markup wraps the placeholder in tview color tags
	Markup bool
}

// Converter handles album cover art conversion to ASCII
type Converter struct {
	httpClient *http.Client
	converter  *convert.ImageConverter
}

// NewConverter creates a new cover art converter
func NewConverter() *Converter {
	return &Converter{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: convert.NewImageConverter(),
	}
}

// ConvertFromURL downloads and converts an image URL to ASCII art.
// On failure the placeholder is returned together with the error.
func (c *Converter) ConvertFromURL(ctx context.Context, url string, opts Options) (string, error) {
	if url == "" {
		return Placeholder(opts), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Placeholder(opts), errors.Wrap(err, "invalid cover url")
	}
	req.Header.Set("Referer", "https://y.qq.com/")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Placeholder(opts), errors.Wrap(err, "failed to download cover")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Placeholder(opts), errors.Errorf("cover download failed: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return Placeholder(opts), errors.Wrap(err, "failed to decode cover")
	}
	return c.Convert(img, opts), nil
}

// Convert renders img with the given options
func (c *Converter) Convert(img image.Image, opts Options) string {
	convertOptions := convert.DefaultOptions
	if opts.Width > 0 {
		convertOptions.FixedWidth = opts.Width
	}
	if opts.Height > 0 {
		convertOptions.FixedHeight = opts.Height
	}
	convertOptions.Colored = opts.Colored
	return c.converter.Image2ASCIIString(img, &convertOptions)
}

// Placeholder is shown when no cover art is available
func Placeholder(opts Options) string {
	lines := []string{
		"┌──────────────────────────┐",
		"│                          │",
		"│         ♫  ♪  ♫          │",
		"│      No Cover Art        │",
		"│         ♫  ♪  ♫          │",
		"│                          │",
		"└──────────────────────────┘",
	}
	if opts.Markup {
		for i := range lines {
			lines[i] = "[darkgray]" + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
