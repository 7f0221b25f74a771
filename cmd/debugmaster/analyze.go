package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo>",
	Short: "Analyze a repository into the structural graph",
	Long: `Walks the repository tree, parses every analyzable source file, and
persists file, function, and class nodes with their import and containment
edges. Re-running clears the previous graph first.

Examples:
  debugmaster analyze vercel/next.js
  debugmaster analyze myorg/backend --ref develop`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeRef string

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRef, "ref", "", "branch or commit to analyze (default: default branch)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	if analyzeRef != "" {
		ref.Ref = analyzeRef
	}

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if svc.Degraded() {
		fmt.Printf("⚠️  Graph index unavailable, analysis will use the relational store only\n\n")
	}

	fmt.Printf("🔍 Analyzing %s...\n", ref.ID())

	result, err := svc.AnalyzeRepository(ctx, ref)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", ref.ID(), err)
	}

	fmt.Printf("\n✅ Analysis complete\n")
	fmt.Printf("  Files analyzed: %d\n", result.SuccessCount)
	fmt.Printf("  Files failed:   %d\n", result.FailureCount)
	fmt.Printf("  Duration:       %s\n", result.Duration.Round(time.Millisecond))

	return nil
}
