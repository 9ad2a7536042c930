package alexbon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexbon-com/alexbon.com/blog"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.URL != "https://alexbon.com" || cfg.Addr != ":3000" || cfg.Source != SourceFiles {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PageSize != 20 || cfg.RelatedLimit != 4 {
		t.Errorf("PageSize/RelatedLimit = %d/%d", cfg.PageSize, cfg.RelatedLimit)
	}
	if cfg.DefaultImage != "https://alexbon.com/images/reflection.webp" {
		t.Errorf("DefaultImage = %q", cfg.DefaultImage)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.CopyFor(blog.LocaleEN).Title != "Alex Bon. Blog" {
		t.Errorf("CopyFor(en) = %+v", cfg.CopyFor(blog.LocaleEN))
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	yaml := `url: https://example.org/
pageSize: 5
env: dev
copy:
  en:
    title: Example
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.URL != "https://example.org" {
		t.Errorf("URL = %q, want trailing slash trimmed", cfg.URL)
	}
	if cfg.PageSize != 5 || cfg.Env != "dev" {
		t.Errorf("PageSize/Env = %d/%q", cfg.PageSize, cfg.Env)
	}
	en := cfg.CopyFor(blog.LocaleEN)
	if en.Title != "Example" {
		t.Errorf("en title = %q", en.Title)
	}
	if en.Description == "" {
		t.Error("missing description should fall back to the default copy")
	}
	if cfg.CopyFor(blog.LocaleUA).Title != "Алекс Бон. Блог" {
		t.Errorf("ua copy = %+v", cfg.CopyFor(blog.LocaleUA))
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("pageSize: 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ALEXBON_PAGESIZE", "7")
	t.Setenv("ALEXBON_SOURCE", "sqlite")
	t.Setenv("ALEXBON_SHUTDOWNTIMEOUT", "3s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.PageSize != 7 {
		t.Errorf("PageSize = %d, want 7 from env", cfg.PageSize)
	}
	if cfg.Source != SourceSQLite {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SiteConfig)
		wantErr bool
	}{
		{"defaults", func(*SiteConfig) {}, false},
		{"relative url", func(c *SiteConfig) { c.URL = "alexbon.com" }, true},
		{"unknown source", func(c *SiteConfig) { c.Source = "s3" }, true},
		{"unknown env", func(c *SiteConfig) { c.Env = "staging" }, true},
		{"watch with sqlite", func(c *SiteConfig) { c.Source = SourceSQLite; c.Watch = true }, true},
		{"watch with files", func(c *SiteConfig) { c.Watch = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg SiteConfig
			cfg.setDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
