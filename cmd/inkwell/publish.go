package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
)

var publishCmd = &cobra.Command{
	Use:   "publish [id]",
	Short: "Publish a draft post",
	Long: `Clear the draft flag on a post so it is included in published builds.
The publication date is stamped if the post does not have one yet.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := inkwell.Open(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		post, err := svc.Publish(context.Background(), args[0])
		if err != nil {
			fatal("Failed to publish post", err)
		}

		fmt.Printf("Published %s (%s)\n", post.ID, post.Meta.Date.Format("2006-01-02"))
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
