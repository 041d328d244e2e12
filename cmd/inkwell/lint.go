package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
	"github.com/goinkwell/inkwell/pkg/lint"
)

var fixEncoding bool

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the content set",
	Long: `Check every post for required front matter fields, parseable dates, slug
uniqueness, duplicate-free tags and keywords, and text-encoding anomalies.
Exits nonzero when errors are found; warnings do not fail the run.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		svc, err := inkwell.Open(contentDir, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open content directory", err)
		}

		listed, err := svc.ListPosts(ctx)
		if err != nil {
			fatal("Failed to list posts", err)
		}

		// Full bodies are needed for encoding checks.
		var posts []inkwell.Post
		for _, p := range listed {
			full, err := svc.GetPost(ctx, p.ID)
			if err != nil {
				fatal("Failed to read post", err)
			}
			posts = append(posts, full)
		}

		if fixEncoding {
			for _, post := range posts {
				repaired, changed := lint.RepairPost(post)
				if !changed {
					continue
				}
				if err := svc.SavePost(ctx, repaired); err != nil {
					fatal("Failed to save repaired post", err)
				}
				fmt.Printf("repaired encoding in %s.md\n", post.ID)
			}
			// Re-read so the report reflects the repaired state.
			for i, post := range posts {
				full, err := svc.GetPost(ctx, post.ID)
				if err != nil {
					fatal("Failed to re-read post", err)
				}
				posts[i] = full
			}
		}

		issues := lint.New().Check(posts)
		failed := false
		for _, issue := range issues {
			fmt.Println(issue.String())
			if issue.Severity == lint.SeverityError {
				failed = true
			}
		}

		if failed {
			os.Exit(1)
		}
		if len(issues) == 0 {
			fmt.Printf("%d posts checked, no issues\n", len(posts))
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&fixEncoding, "fix-encoding", false, "Repair mis-encoded characters in place")
}
