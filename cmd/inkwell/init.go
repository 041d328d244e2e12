package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goinkwell/inkwell"
)

var initSample bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a content directory",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := contentDir
		if len(args) == 1 {
			path = args[0]
		}

		svc, err := inkwell.New(path, inkwell.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to initialize content directory", err)
		}

		if initSample {
			post, err := svc.CreatePost(context.Background(), "Hello World")
			if err != nil {
				fatal("Failed to create sample post", err)
			}
			fmt.Printf("Created sample draft %s.md\n", post.ID)
		}

		fmt.Printf("Content directory ready at %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initSample, "sample", false, "Seed the directory with a sample draft post")
}
