package convert

import (
	"testing"

	"github.com/Vovarama1992/image_converter/internal/codec"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		in   string
		to   codec.Format
		want string
	}{
		{"photo.jpg", codec.PNG, "photo.png"},
		{"archive.tar.gz", codec.WEBP, "archive.tar.webp"},
		{"noext", codec.JPEG, "noext.jpeg"},
		{".hidden", codec.PNG, "image.png"},
		{"dir/sub/pic.PNG", codec.WEBP, "pic.webp"},
		{"", codec.PNG, "image.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := OutputName(tt.in, tt.to); got != tt.want {
				t.Errorf("OutputName(%q, %s) = %q, want %q", tt.in, tt.to, got, tt.want)
			}
		})
	}
}

func TestNamerNext(t *testing.T) {
	n := NewNamer()
	seq := []struct{ in, want string }{
		{"a.png", "a.png"},
		{"a.png", "a-1.png"},
		{"A.PNG", "A-2.PNG"},
		{"a-1.png", "a-1-1.png"},
		{"b.png", "b.png"},
	}
	for i, s := range seq {
		if got := n.Next(s.in); got != s.want {
			t.Errorf("step %d: Next(%q) = %q, want %q", i, s.in, got, s.want)
		}
	}
}
