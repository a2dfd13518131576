package cmd

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chrishacia/ZipDrop/pkg/store"
)

// patternsCmd manages the persisted exclusion pattern list.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage the persisted exclusion patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the persisted exclusion patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		patterns, err := st.LoadPatterns()
		if err != nil {
			return err
		}
		for _, p := range patterns {
			fmt.Println(p)
		}
		return nil
	},
}

var patternsAddCmd = &cobra.Command{
	Use:   "add <pattern>...",
	Short: "Add exclusion patterns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		patterns, err := st.LoadPatterns()
		if err != nil {
			return err
		}
		added := 0
		for _, p := range args {
			if slices.Contains(patterns, p) {
				continue
			}
			patterns = append(patterns, p)
			added++
		}
		if err := st.SavePatterns(patterns); err != nil {
			return err
		}
		color.Green("Added %d pattern(s)", added)
		return nil
	},
}

var patternsRemoveCmd = &cobra.Command{
	Use:   "remove <pattern>...",
	Short: "Remove exclusion patterns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		patterns, err := st.LoadPatterns()
		if err != nil {
			return err
		}
		kept := patterns[:0]
		for _, p := range patterns {
			if !slices.Contains(args, p) {
				kept = append(kept, p)
			}
		}
		if err := st.SavePatterns(kept); err != nil {
			return err
		}
		color.Green("Removed %d pattern(s)", len(patterns)-len(kept))
		return nil
	},
}

var patternsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the exclusion patterns to the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.SavePatterns(store.DefaultPatterns); err != nil {
			return err
		}
		color.Green("Patterns reset to defaults")
		return nil
	},
}

func openStore() (*store.Store, error) {
	dir, err := store.DefaultDir()
	if err != nil {
		return nil, err
	}
	return store.Open(dir, logger)
}

func init() {
	patternsCmd.AddCommand(patternsListCmd, patternsAddCmd, patternsRemoveCmd, patternsResetCmd)
	RootCmd.AddCommand(patternsCmd)
}
