package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"content/ua/notes/tysha.md":  "---\npublishedAt: 2024-01-01\ntranslationGroup: silence\ntags: [calm]\n---\nТиша.\n",
		"content/en/notes/silence.md": "---\npublishedAt: 2024-01-01\ntranslationGroup: silence\ntags: [calm]\n---\nSilence.\n",
	}
	for rel, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	cfg := "env: local\nlogLevel: error\ncontentDir: " + filepath.Join(dir, "content") +
		"\nstaticDir: " + filepath.Join(dir, "public") +
		"\ndatabasePath: " + filepath.Join(dir, "data", "posts.db") + "\n"
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "alexbon dev\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestCheck(t *testing.T) {
	cfg := setupSite(t)
	out, err := run(t, "--config", cfg, "check", "--strict")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "en\t1 posts\t1 tags") || !strings.Contains(out, "ua\t1 posts") {
		t.Errorf("check output = %q", out)
	}
}

func TestFeed(t *testing.T) {
	cfg := setupSite(t)
	out, err := run(t, "--config", cfg, "feed", "--locale", "en")
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if !strings.Contains(out, "<rss") || !strings.Contains(out, "https://alexbon.com/en/blog/silence/") {
		t.Errorf("rss output = %q", out)
	}

	out, err = run(t, "--config", cfg, "feed", "--format", "json")
	if err != nil {
		t.Fatalf("json feed failed: %v", err)
	}
	if !strings.Contains(out, `"version": "https://jsonfeed.org/version/1.1"`) {
		t.Errorf("json output = %q", out)
	}

	if _, err := run(t, "--config", cfg, "feed", "--locale", "de"); err == nil {
		t.Error("expected error for an unknown locale")
	}
}

func TestImportThenServeFromStore(t *testing.T) {
	cfg := setupSite(t)
	out, err := run(t, "--config", cfg, "import")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "imported 2 posts") {
		t.Errorf("import output = %q", out)
	}

	t.Setenv("ALEXBON_SOURCE", "sqlite")
	out, err = run(t, "--config", cfg, "sitemap")
	if err != nil {
		t.Fatalf("sitemap from store failed: %v", err)
	}
	if !strings.Contains(out, "<loc>https://alexbon.com/blog/tysha/</loc>") {
		t.Errorf("sitemap output = %q", out)
	}
}
