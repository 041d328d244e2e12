package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
)

var (
	listJSON   bool
	listDrafts bool
	filterTag  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts in the content directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := inkwell.Open(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		posts, err := svc.ListPosts(context.Background())
		if err != nil {
			fatal("Failed to list posts", err)
		}

		var filtered []inkwell.Post
		for _, post := range posts {
			if post.Meta.Draft && !listDrafts {
				continue
			}
			if filterTag != "" && !post.HasTag(filterTag) {
				continue
			}
			filtered = append(filtered, post)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, post := range filtered {
			marker := " "
			if post.Meta.Draft {
				marker = "D"
			}
			date := ""
			if !post.Meta.Date.IsZero() {
				date = post.Meta.Date.Format("2006-01-02")
			}
			fmt.Printf("%s %-10s %s - %s\n", marker, date, post.ID, post.Meta.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include draft posts")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter posts by tag")
}
