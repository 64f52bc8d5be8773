// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process [input]",
	Short: "Run the research pipeline on a document, URL, or question",
	Long: `Process classifies the input and runs the matching pipeline: documents
and URLs are acquired, chunked, summarized, and recorded in the citation
graph and interaction memory; free-text questions are answered from the
indexed chunks with prior session context.

Examples:
  research-assistant process paper.pdf
  research-assistant process https://arxiv.org/abs/1706.03762
  research-assistant process "what are attention heads?"`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.close()

	state := comps.orch.Process(context.Background(), args[0])

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return err
		}
	} else {
		for _, line := range state.StatusLog {
			fmt.Println(line)
		}
		if answer, ok := state.Summary["answer"].(string); ok {
			fmt.Println("\n" + answer)
		} else if summary, ok := state.Summary["full_summary"].(string); ok {
			fmt.Println("\n" + summary)
		}
		if len(state.RelatedPapers) > 0 {
			fmt.Println("\nRelated papers:")
			for _, ref := range state.RelatedPapers {
				fmt.Printf("  %s (score %d)\n", ref.Title, ref.Score)
			}
		}
	}

	if state.Failed() {
		return fmt.Errorf("pipeline failed: %s", state.FatalError)
	}
	return nil
}

func init() {
	processCmd.Flags().Bool("json", false, "print the full workflow state as JSON")

	rootCmd.AddCommand(processCmd)
}
