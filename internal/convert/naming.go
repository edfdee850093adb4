package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/image_converter/internal/codec"
)

// OutputName: "photo.jpeg" + webp → "photo.webp".
func OutputName(original string, to codec.Format) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "image"
	}
	return base + to.Ext()
}

// Namer раздаёт уникальные имена записей в архиве: повтор "a.png"
// превращается в "a-1.png", затем "a-2.png".
type Namer struct {
	used map[string]struct{}
}

func NewNamer() *Namer {
	return &Namer{used: make(map[string]struct{})}
}

func (n *Namer) Next(name string) string {
	if n.take(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if n.take(candidate) {
			return candidate
		}
	}
}

func (n *Namer) take(name string) bool {
	key := strings.ToLower(name)
	if _, ok := n.used[key]; ok {
		return false
	}
	n.used[key] = struct{}{}
	return true
}
