package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context <owner/repo> <issue-number>",
	Short: "Assemble a context bundle for a defect report",
	Long: `Resolves the issue, discovers candidate files from its stack trace,
mentions, and repository configuration, scores their relevance, and prints
the assembled context bundle as JSON.

Examples:
  debugmaster context myorg/backend 189
  debugmaster context myorg/backend 189 --output bundle.json`,
	Args: cobra.ExactArgs(2),
	RunE: runContext,
}

var contextOutput string

func init() {
	contextCmd.Flags().StringVarP(&contextOutput, "output", "o", "", "write bundle JSON to file instead of stdout")
}

func runContext(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ref, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	issueNumber, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid issue number %q", args[1])
	}

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	bundle := svc.BuildContext(ctx, ref, issueNumber)

	if bundle.Metadata.Fallback {
		fmt.Fprintf(os.Stderr, "⚠️  Assembled fallback context: %s\n", bundle.Metadata.Error)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	if contextOutput != "" {
		if err := os.WriteFile(contextOutput, data, 0o644); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		fmt.Printf("✅ Context bundle written to %s (%d files)\n", contextOutput, bundle.Metadata.TotalFiles)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
