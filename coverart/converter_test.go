package coverart

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConvertFromURL(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://y.qq.com/" {
			t.Errorf("Referer = %q", r.Header.Get("Referer"))
		}
		png.Encode(w, img)
	}))
	defer srv.Close()

	c := NewConverter()
	art, err := c.ConvertFromURL(context.Background(), srv.URL+"/cover.png", Options{Width: 8, Height: 4})
	if err != nil {
		t.Fatalf("ConvertFromURL: %v", err)
	}
	if lines := strings.Split(strings.TrimRight(art, "\n"), "\n"); len(lines) != 4 {
		t.Errorf("got %d lines, want 4:\n%s", len(lines), art)
	}
}

func TestConvertFromURLFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	c := NewConverter()
	for _, path := range []string{"/missing", "/garbage"} {
		art, err := c.ConvertFromURL(context.Background(), srv.URL+path, Options{})
		if err == nil {
			t.Errorf("%s: expected error", path)
		}
		if art != Placeholder(Options{}) {
			t.Errorf("%s: placeholder not returned", path)
		}
	}

	art, err := c.ConvertFromURL(context.Background(), "", Options{Markup: true})
	if err != nil || !strings.HasPrefix(art, "[darkgray]") {
		t.Errorf("empty url: %q, %v", art, err)
	}
}
