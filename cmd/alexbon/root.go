package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	alexbon "github.com/alexbon-com/alexbon.com"
	"github.com/alexbon-com/alexbon.com/logger"
)

// cli carries what every subcommand needs once the root has loaded it.
type cli struct {
	cfgFile string
	cfg     alexbon.SiteConfig
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "alexbon",
		Short: "alexbon.com blog server and content tools",
		Long: `alexbon serves the multilingual alexbon.com blog from a markdown content
tree or a SQLite database, and builds its feeds and sitemap offline.

Configuration is read from an optional YAML file and ALEXBON_* environment
variables, which take precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (YAML)")

	root.AddCommand(
		newServeCmd(c),
		newCheckCmd(c),
		newFeedCmd(c),
		newSitemapCmd(c),
		newImportCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := alexbon.LoadConfig(c.cfgFile)
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log
	return nil
}
