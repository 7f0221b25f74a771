package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the current structural graph",
	Long:  `Prints a summary of the persisted graph, or the full node/edge set as JSON.`,
	RunE:  runGraph,
}

var graphJSON bool

func init() {
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "print the full snapshot as JSON")
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, cleanup, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	snapshot, err := svc.GraphSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("graph snapshot: %w", err)
	}

	if graphJSON {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	counts := map[models.NodeType]int{}
	for _, node := range snapshot.Nodes {
		counts[node.Type]++
	}
	edgeCounts := map[models.EdgeType]int{}
	for _, edge := range snapshot.Edges {
		edgeCounts[edge.Type]++
	}

	fmt.Printf("📊 Structural Graph\n")
	fmt.Printf("  Files:     %d\n", counts[models.NodeTypeFile])
	fmt.Printf("  Functions: %d\n", counts[models.NodeTypeFunction])
	fmt.Printf("  Classes:   %d\n", counts[models.NodeTypeClass])
	fmt.Printf("  Imports:   %d\n", edgeCounts[models.EdgeTypeImports])
	fmt.Printf("  Contains:  %d\n", edgeCounts[models.EdgeTypeContains])
	if snapshot.IsAnalyzing {
		fmt.Printf("\n⏳ Analysis in progress\n")
	}
	if svc.Degraded() {
		fmt.Printf("\n⚠️  Graph index unavailable (relational store only)\n")
	}

	return nil
}
