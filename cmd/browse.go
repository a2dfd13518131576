package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrishacia/ZipDrop/pkg/session"
	"github.com/chrishacia/ZipDrop/pkg/stats"
	"github.com/chrishacia/ZipDrop/pkg/tui"
)

var (
	browseOutDir    string
	browseEventsURL string
)

// browseCmd opens the interactive tree browser over a folder.
var browseCmd = &cobra.Command{
	Use:   "browse <folder>",
	Short: "Interactively browse a folder and create an archive",
	Long: `Browse scans the folder with the persisted exclusion patterns, shows
the surviving tree with live stats, and lets you toggle entries in and
out before creating the archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		sinks := []stats.Sink{stats.NewLocalSink(st)}
		eventsURL := browseEventsURL
		if eventsURL == "" {
			eventsURL = os.Getenv("ZIPDROP_EVENTS_URL")
		}
		if eventsURL != "" {
			sinks = append(sinks, stats.NewHTTPSink(eventsURL))
		}

		sess, err := session.New(logger, st, sinks...)
		if err != nil {
			return err
		}

		if err := tui.Run(logger, sess, args[0], browseOutDir); err != nil {
			return fmt.Errorf("browser failed: %w", err)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseOutDir, "out-dir", ".", "Directory to write the archive into")
	browseCmd.Flags().StringVar(&browseEventsURL, "events-url", "", "Optional HTTP endpoint for completion events")

	RootCmd.AddCommand(browseCmd)
}
