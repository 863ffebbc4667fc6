package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/server"
	"github.com/ivlev/carousel/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the carousel over HTTP with websocket push",
	Long: `Serves the carousel API for the website:

  GET  /api/carousel?width=W         state and slot assignments for a viewport
  POST /api/carousel/next|prev       navigate (accepted=false while a slide animates)
  POST /api/carousel/jump/:index     jump to an item
  POST /api/carousel/pause/:reason   hold autoplay (hover, focus, ...)
  POST /api/carousel/resume/:reason  release a pause reason
  GET  /api/items                    catalog items
  GET  /api/autoplay                 autoplay status
  GET  /ws                           state pushes

A YAML catalog is reloaded when the file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		src, items, err := openSource()
		if err != nil {
			return err
		}
		src.Close()

		key, _ := filepath.Abs(cfg.CatalogPath)
		positions, err := store.Open("carousel", logger)
		if err != nil {
			logger.Warn("positions are not persisted", zap.Error(err))
		}

		s := server.New(cfg, items, server.Options{
			Logger: logger,
			Focus:  positions.Resume(key, len(items)).Focus,
		})

		watch := ""
		if ext := strings.ToLower(filepath.Ext(cfg.CatalogPath)); cfg.Server.WatchCatalog && (ext == ".yaml" || ext == ".yml") {
			watch = cfg.CatalogPath
		}
		err = s.Run(cmd.Context(), watch)

		st := s.State()
		if saveErr := positions.Save(key, store.Position{Focus: st.Focus, Count: st.Count}); saveErr != nil {
			logger.Warn("failed to save position", zap.Error(saveErr))
		}
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config)")
}
