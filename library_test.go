package alexbon

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/metrics"
)

func TestLibraryStartsEmpty(t *testing.T) {
	lib := NewLibrary(SourceFunc(func(context.Context) ([]blog.Post, error) { return nil, nil }), nil, nil)
	if lib.Index() == nil {
		t.Fatal("Index should never be nil")
	}
	if lib.Loaded() {
		t.Error("Loaded should be false before the first load")
	}
	if got := lib.Index().PostsByLocale(blog.LocaleUA); len(got) != 0 {
		t.Errorf("empty library has %d posts", len(got))
	}
}

func TestLibraryFailedReloadKeepsIndex(t *testing.T) {
	fail := false
	src := SourceFunc(func(context.Context) ([]blog.Post, error) {
		if fail {
			return nil, errors.New("disk on fire")
		}
		return fixturePosts(), nil
	})
	m := metrics.New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	lib := NewLibrary(src, nil, m)

	first, err := lib.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !lib.Loaded() || lib.Index() != first {
		t.Fatal("first load should publish its index")
	}

	fail = true
	if _, err := lib.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("Load error = %v", err)
	}
	if lib.Index() != first {
		t.Error("failed reload replaced the index")
	}

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`alexbon_index_reloads_total{result="ok"} 1`,
		`alexbon_index_reloads_total{result="error"} 1`,
		`alexbon_index_posts{locale="ua"} 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
