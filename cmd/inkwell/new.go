package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Scaffold a new draft post",
	Long: `Create a new post from a title. The filename and slug are derived from the
title, the date is stamped, and the post starts as a draft.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := inkwell.New(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		post, err := svc.CreatePost(context.Background(), args[0])
		if err != nil {
			fatal("Failed to create post", err)
		}

		fmt.Printf("Created draft %s.md (slug: %s)\n", post.ID, post.Meta.Slug)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
