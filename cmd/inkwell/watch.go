package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
	"github.com/goinkwell/inkwell/pkg/site"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the site on every content change",
	Long: `Run a draft-preview build, then watch the content directory and rebuild
whenever a post changes. Stops on interrupt.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := inkwell.Open(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		builder, err := site.New(svc, slog.Default())
		if err != nil {
			fatal("Failed to create builder", err)
		}

		opts := site.Options{
			OutDir:        buildOut,
			BaseURL:       buildBase,
			Title:         buildTitle,
			IncludeDrafts: true,
		}

		rebuild := func() {
			result, err := builder.Build(ctx, opts)
			if err != nil {
				slog.Error("build failed", "error", err)
				return
			}
			slog.Info("preview rebuilt", "pages", len(result.Pages), "warnings", len(result.Warnings))
		}
		rebuild()

		events, err := svc.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to watch content directory", err)
		}

		fmt.Printf("Watching %s, previewing into %s (Ctrl-C to stop)\n", contentDir, buildOut)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				slog.Info("content changed", "id", event.ID, "type", string(event.Type))
				rebuild()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "**/*.md", "Glob pattern for watched content")
	watchCmd.Flags().StringVarP(&buildOut, "out", "o", "public", "Output directory")
	watchCmd.Flags().StringVar(&buildBase, "base-url", "", "Base URL for feed and sitemap links")
	watchCmd.Flags().StringVar(&buildTitle, "title", "", "Site title")
}
