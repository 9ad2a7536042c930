package content

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/url"
	"path"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageInfo describes a cover image referenced by a post.
type ImageInfo struct {
	Path   string
	Format string
	Width  int
	Height int
}

// ProbeImage reads the dimensions of the image at ref inside fsys without
// decoding pixel data. ref may be a site-relative path ("/images/a.webp") or
// an absolute URL whose path is looked up in fsys.
func ProbeImage(fsys fs.FS, ref string) (ImageInfo, error) {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		p = u.Path
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if !fs.ValidPath(p) || p == "." {
		return ImageInfo{}, fmt.Errorf("content: invalid image path %q", ref)
	}

	f, err := fsys.Open(p)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("content: open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("content: decode image %s: %w", p, err)
	}
	return ImageInfo{
		Path:   p,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
