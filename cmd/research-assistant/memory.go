// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/memlog"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage the interaction memory log",
	Long: `Memory reads the append-only interaction log. Use subcommands to list
recent entries, search by keyword, show document history, print
statistics, export the log, or clear it.`,
}

func openMemory() (*memlog.Log, error) {
	cfg := pipelineConfig()
	return memlog.Open(cfg.Memory.Path)
}

func printEntries(entries []types.MemoryEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	for _, e := range entries {
		switch e.Kind {
		case types.EntryDocument:
			fmt.Printf("[%d] %s  document  %s\n", e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Title)
			if e.Summary != "" {
				fmt.Printf("     %s\n", firstLine(e.Summary))
			}
		default:
			fmt.Printf("[%d] %s  query     %s\n", e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Query)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:97] + "..."
	}
	return s
}

var memoryRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		n, _ := cmd.Flags().GetInt("n")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printEntries(log.Recent(n), jsonOutput)
	},
}

var memorySearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search memory entries by keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printEntries(log.SearchKeyword(args[0]), jsonOutput)
	},
}

var memoryDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List all processed documents in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printEntries(log.DocumentHistory(), jsonOutput)
	},
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print memory log statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		stats := log.Stats()
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Printf("Total entries:    %d\n", stats.TotalEntries)
		fmt.Printf("Document entries: %d\n", stats.DocumentEntries)
		fmt.Printf("Query entries:    %d\n", stats.QueryEntries)
		if stats.OldestEntry != nil {
			fmt.Printf("Oldest entry:     %s\n", stats.OldestEntry.Format("2006-01-02 15:04"))
			fmt.Printf("Newest entry:     %s\n", stats.NewestEntry.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var memoryExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the memory log to YAML or JSON",
	Long: `Export writes all memory entries to the given path. A .yaml or .yml
suffix selects YAML output; anything else gets indented JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		if err := log.Export(args[0]); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", log.Len(), args[0])
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("refusing to clear without --yes")
		}

		log, err := openMemory()
		if err != nil {
			return err
		}
		defer log.Close()

		if err := log.Clear(); err != nil {
			return err
		}
		fmt.Println("Memory cleared.")
		return nil
	},
}

func init() {
	memoryRecentCmd.Flags().Int("n", 10, "number of entries to show")
	memoryClearCmd.Flags().Bool("yes", false, "confirm destructive clear")

	for _, c := range []*cobra.Command{
		memoryRecentCmd, memorySearchCmd, memoryDocumentsCmd, memoryStatsCmd,
	} {
		c.Flags().Bool("json", false, "output as JSON")
	}

	memoryCmd.AddCommand(memoryRecentCmd, memorySearchCmd, memoryDocumentsCmd,
		memoryStatsCmd, memoryExportCmd, memoryClearCmd)
	rootCmd.AddCommand(memoryCmd)
}
