package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	alexbon "github.com/alexbon-com/alexbon.com"
	"github.com/alexbon-com/alexbon.com/blog"
)

// loadIndex builds an index from the configured source.
func (c *cli) loadIndex(ctx context.Context) (*blog.Index, error) {
	src, store, err := alexbon.NewSource(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer store.Close()
	}
	return alexbon.NewLibrary(src, c.log, nil).Load(ctx)
}

func newCheckCmd(c *cli) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the content and report problems",
		Long: `check parses every post, builds the index and prints per-locale counts,
translation group collisions and posts skipped for an unknown locale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range idx.Locales() {
				fmt.Fprintf(out, "%s\t%d posts\t%d tags\n", l, idx.Len(l), len(idx.Tags(l)))
			}
			collisions := idx.Collisions()
			for _, col := range collisions {
				fmt.Fprintf(out, "collision: group %q locale %s kept %s dropped %s\n", col.Group, col.Locale, col.Kept, col.Dropped)
			}
			if n := idx.Skipped(); n > 0 {
				fmt.Fprintf(out, "skipped: %d posts with an unknown locale\n", n)
			}
			if strict && (len(collisions) > 0 || idx.Skipped() > 0) {
				return errors.New("content has problems")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on collisions or skipped posts")
	return cmd
}

func newFeedCmd(c *cli) *cobra.Command {
	var (
		locale string
		format string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the RSS or JSON feed of a locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := blog.ParseLocale(locale)
			if !ok {
				return fmt.Errorf("unknown locale %q", locale)
			}
			idx, err := c.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			return writeFeed(cmd.OutOrStdout(), c.cfg, idx, l, format)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", string(blog.DefaultLocale), "locale (ua, ru or en)")
	cmd.Flags().StringVar(&format, "format", "rss", "feed format (rss or json)")
	return cmd
}

func writeFeed(w io.Writer, cfg alexbon.SiteConfig, idx *blog.Index, l blog.Locale, format string) error {
	switch format {
	case "rss":
		body, err := alexbon.BuildRSS(cfg, idx, l)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(alexbon.BuildJSONFeed(cfg, idx, l))
	}
	return fmt.Errorf("unknown feed format %q", format)
}

func newSitemapCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Print the sitemap",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			body, err := alexbon.BuildSitemap(c.cfg, idx)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the markdown content tree into the SQLite store",
		Long: `import parses the content directory and replaces the posts in the SQLite
database with the result, in one transaction. Serve the database with
source: sqlite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = c.cfg.DatabasePath
			}
			posts, err := alexbon.NewLoader(c.cfg, c.log).Load(cmd.Context())
			if err != nil {
				return err
			}
			store, err := alexbon.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.ImportPosts(cmd.Context(), posts); err != nil {
				return err
			}
			c.log.Info("imported posts", zap.Int("posts", len(posts)), zap.String("db", dbPath))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts into %s\n", len(posts), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to databasePath from config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "alexbon %s\n", version)
		},
	}
}
