package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
	"github.com/goinkwell/inkwell/pkg/site"
)

var (
	buildOut    string
	buildBase   string
	buildTitle  string
	buildDrafts bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the content set to a static site",
	Long: `Render every published post to HTML, plus tag listing pages, an index, an
RSS feed, and a sitemap. Draft posts are excluded unless --drafts is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := inkwell.Open(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		builder, err := site.New(svc, slog.Default())
		if err != nil {
			fatal("Failed to create builder", err)
		}

		result, err := builder.Build(context.Background(), site.Options{
			OutDir:        buildOut,
			BaseURL:       buildBase,
			Title:         buildTitle,
			IncludeDrafts: buildDrafts,
		})
		if err != nil {
			fatal("Build failed", err)
		}

		fmt.Printf("Built %d pages to %s (%d drafts skipped, %d warnings)\n",
			len(result.Pages), buildOut, len(result.Skipped), len(result.Warnings))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "public", "Output directory")
	buildCmd.Flags().StringVar(&buildBase, "base-url", "", "Base URL for feed and sitemap links")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "Site title")
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "Include draft posts (preview mode)")
}
