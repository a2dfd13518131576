package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chrishacia/ZipDrop/pkg/format"
)

// statsCmd shows the accumulated statistics and the build history.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accumulated archive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		totals, err := st.LoadTotals()
		if err != nil {
			return err
		}

		fmt.Printf("archives created: %d\n", totals.ArchivesCreated)
		fmt.Printf("files archived:   %d\n", totals.FilesArchived)
		fmt.Printf("raw bytes:        %s\n", format.Bytes(totals.RawBytes))
		fmt.Printf("compressed bytes: %s\n", format.Bytes(totals.CompressedBytes))
		return nil
	},
}

var statsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent archive builds",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		records, err := st.LoadHistory()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No builds recorded yet.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Created", "Archive", "Folder", "Files", "Raw", "Compressed"})
		for _, r := range records {
			table.Append([]string{
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.Archive,
				r.SourceFolder,
				strconv.Itoa(r.Files),
				format.Bytes(r.RawBytes),
				format.Bytes(r.CompressedBytes),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	statsCmd.AddCommand(statsHistoryCmd)
	RootCmd.AddCommand(statsCmd)
}
