package codec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestConvertKeepsDimensions(t *testing.T) {
	src := samplePNG(t, 37, 21)
	c := NewImageCodec(90)

	for _, f := range []Format{PNG, JPEG, WEBP} {
		t.Run(string(f), func(t *testing.T) {
			var out bytes.Buffer
			if err := c.Convert(context.Background(), bytes.NewReader(src), &out, f); err != nil {
				t.Fatalf("Convert: %v", err)
			}
			cfg, name, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if name != string(f) {
				t.Errorf("encoded as %q, want %q", name, f)
			}
			if cfg.Width != 37 || cfg.Height != 21 {
				t.Errorf("got %dx%d, want 37x21", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	src := samplePNG(t, 16, 16)
	c := NewImageCodec(80)

	for _, f := range []Format{PNG, JPEG, WEBP} {
		t.Run(string(f), func(t *testing.T) {
			var a, b bytes.Buffer
			if err := c.Convert(context.Background(), bytes.NewReader(src), &a, f); err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if err := c.Convert(context.Background(), bytes.NewReader(src), &b, f); err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if !bytes.Equal(a.Bytes(), b.Bytes()) {
				t.Error("outputs differ")
			}
		})
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	c := NewImageCodec(90)
	var out bytes.Buffer
	if err := c.Convert(context.Background(), bytes.NewReader([]byte("not an image")), &out, PNG); err == nil {
		t.Fatal("expected decode error")
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes on failure", out.Len())
	}
}

func TestConvertUnknownTarget(t *testing.T) {
	c := NewImageCodec(90)
	err := c.Convert(context.Background(), bytes.NewReader(samplePNG(t, 2, 2)), &bytes.Buffer{}, Format("gif"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", PNG, false},
		{"png", PNG, false},
		{"JPG", JPEG, false},
		{"jpeg", JPEG, false},
		{" webp ", WEBP, false},
		{"text-only", "", true},
		{"gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
