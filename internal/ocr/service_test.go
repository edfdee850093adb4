package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
)

type fakeEngine struct {
	texts map[string]string
	fail  map[string]bool
	calls []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, image []byte) (string, error) {
	key := string(image)
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return "", errors.New("engine crashed")
	}
	return f.texts[key], nil
}

func src(name, content string) Source {
	return Source{
		Name: name,
		Open: func(context.Context) ([]byte, error) { return []byte(content), nil },
	}
}

func newService(e Engine) *Service {
	return NewService(e, logger.NewZapLogger(zap.NewNop().Sugar()))
}

func TestExtractTextKeepsOrderAndAbsorbsFailures(t *testing.T) {
	engine := &fakeEngine{
		texts: map[string]string{"img1": "  HELLO\n", "img3": "world"},
		fail:  map[string]bool{"img2": true},
	}
	s := newService(engine)

	got, err := s.ExtractText(context.Background(), []Source{
		src("a.png", "img1"),
		src("b.png", "img2"),
		src("c.png", "img3"),
		src("d.png", "blank"),
	})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	want := []Result{
		{Name: "a.png", Text: "HELLO", Detected: true},
		{Name: "b.png", Text: NoTextPlaceholder},
		{Name: "c.png", Text: "world", Detected: true},
		{Name: "d.png", Text: NoTextPlaceholder},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	wantCalls := []string{"img1", "img2", "img3", "blank"}
	for i, c := range wantCalls {
		if engine.calls[i] != c {
			t.Errorf("call %d = %q, want %q", i, engine.calls[i], c)
		}
	}
}

func TestExtractTextOpenFailureBecomesPlaceholder(t *testing.T) {
	s := newService(&fakeEngine{})
	broken := Source{
		Name: "gone.png",
		Open: func(context.Context) ([]byte, error) { return nil, errors.New("read failed") },
	}

	got, err := s.ExtractText(context.Background(), []Source{broken})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got[0].Text != NoTextPlaceholder || got[0].Detected {
		t.Errorf("got %+v", got[0])
	}
}

func TestExtractTextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &fakeEngine{}
	s := newService(engine)
	if _, err := s.ExtractText(ctx, []Source{src("a.png", "x")}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(engine.calls) != 0 {
		t.Errorf("engine called %d times", len(engine.calls))
	}
}
