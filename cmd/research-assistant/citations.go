// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/citegraph"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Query the citation graph",
	Long: `Citations queries the accumulated citation graph: influential papers by
in-degree, papers related through shared citations, papers by author,
and the local citation network around a paper.`,
}

// withGraph opens the configured graph store, runs fn, and closes it.
func withGraph(fn func(ctx context.Context, store citegraph.Store) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := pipelineConfig()
	store := citegraph.New(cfg.Graph, log)
	ctx := context.Background()
	defer store.Close(ctx)

	if !store.Available() {
		fmt.Fprintln(os.Stderr, "warning: graph backend unavailable, results will be empty")
	}
	return fn(ctx, store)
}

func printRefs(refs []types.PaperRef, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}
	if len(refs) == 0 {
		fmt.Println("No papers found.")
		return nil
	}
	for i, r := range refs {
		line := fmt.Sprintf("%2d. %s", i+1, r.Title)
		if r.Year > 0 {
			line += fmt.Sprintf(" (%d)", r.Year)
		}
		if r.Score > 0 {
			line += fmt.Sprintf("  [score %d]", r.Score)
		}
		fmt.Println(line)
	}
	return nil
}

var citationsInfluentialCmd = &cobra.Command{
	Use:   "influential",
	Short: "List the most-cited papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withGraph(func(ctx context.Context, store citegraph.Store) error {
			refs, err := store.FindInfluential(ctx, limit)
			if err != nil {
				return err
			}
			return printRefs(refs, jsonOutput)
		})
	},
}

var citationsRelatedCmd = &cobra.Command{
	Use:   "related [paper-id]",
	Short: "List papers sharing citations with a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withGraph(func(ctx context.Context, store citegraph.Store) error {
			refs, err := store.FindRelated(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printRefs(refs, jsonOutput)
		})
	},
}

var citationsAuthorCmd = &cobra.Command{
	Use:   "author [name]",
	Short: "List papers by an author, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withGraph(func(ctx context.Context, store citegraph.Store) error {
			refs, err := store.FindByAuthor(ctx, args[0])
			if err != nil {
				return err
			}
			return printRefs(refs, jsonOutput)
		})
	},
}

var citationsNetworkCmd = &cobra.Command{
	Use:   "network [paper-id]",
	Short: "Show the citation network around a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		depth, _ := cmd.Flags().GetInt("depth")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withGraph(func(ctx context.Context, store citegraph.Store) error {
			network, err := store.Network(ctx, args[0], depth)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(network)
			}
			fmt.Printf("%d nodes, %d edges\n", len(network.Nodes), len(network.Edges))
			for _, e := range network.Edges {
				fmt.Printf("  %s -> %s\n", e.Source, e.Target)
			}
			return nil
		})
	},
}

var citationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all papers and citation edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear the citation graph without --yes")
		}
		return withGraph(func(ctx context.Context, store citegraph.Store) error {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Println("Citation graph cleared.")
			return nil
		})
	},
}

func init() {
	citationsInfluentialCmd.Flags().Int("limit", 10, "maximum papers to list")
	citationsClearCmd.Flags().Bool("yes", false, "confirm deletion")
	citationsRelatedCmd.Flags().Int("limit", 5, "maximum papers to list")
	citationsNetworkCmd.Flags().Int("depth", 2, "hops from the starting paper")

	for _, c := range []*cobra.Command{
		citationsInfluentialCmd, citationsRelatedCmd, citationsAuthorCmd, citationsNetworkCmd,
	} {
		c.Flags().Bool("json", false, "output as JSON")
	}

	citationsCmd.AddCommand(citationsInfluentialCmd, citationsRelatedCmd,
		citationsAuthorCmd, citationsNetworkCmd, citationsClearCmd)
	rootCmd.AddCommand(citationsCmd)
}
