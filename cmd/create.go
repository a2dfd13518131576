package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/format"
	"github.com/chrishacia/ZipDrop/pkg/fsys"
	"github.com/chrishacia/ZipDrop/pkg/session"
	"github.com/chrishacia/ZipDrop/pkg/stats"
	"github.com/chrishacia/ZipDrop/pkg/store"
	"github.com/chrishacia/ZipDrop/pkg/tree"
)

var (
	createOutput     string
	createOutDir     string
	createExcludes   []string
	createDryRun     bool
	createCopyDigest bool
	createEventsURL  string
)

// createCmd archives a folder using the persisted exclusion patterns plus
// any patterns given on the command line.
var createCmd = &cobra.Command{
	Use:   "create <folder>",
	Short: "Create a zip archive of a folder",
	Long: `Create walks the folder, skips everything matched by the persisted
exclusion patterns (plus any --exclude patterns for this run), and writes
<name>.zip containing the surviving files and an integrity manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		storeDir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		st, err := store.Open(storeDir, logger)
		if err != nil {
			return fmt.Errorf("failed to open settings store: %w", err)
		}

		sinks := []stats.Sink{stats.NewLocalSink(st)}
		eventsURL := createEventsURL
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

		if len(createExcludes) > 0 {
			merged := append(sess.Patterns(), createExcludes...)
			if err := sess.SetPatterns(ctx, merged, false); err != nil {
				return err
			}
		}

		root, err := fsys.NewOSDir(args[0])
		if err != nil {
			return err
		}
		if err := sess.SetRoot(ctx, root); err != nil {
			logger.Error("Failed to scan folder", zap.String("folder", args[0]), zap.Error(err))
			return fmt.Errorf("failed to scan folder: %w", err)
		}

		t := sess.Tree()
		if t == nil {
			fmt.Println("Nothing to archive: every entry is excluded.")
			return nil
		}

		totals := sess.Stats()
		if createDryRun {
			fmt.Print(tree.Render(t, nil))
			fmt.Printf("\n%d files, %d folders, %s\n", totals.Files, totals.Folders, format.Bytes(totals.Bytes))
			return nil
		}

		name := createOutput
		if name == "" {
			name = root.Name()
		}

		result, err := sess.Build(ctx, name, func(current, total int) {
			fmt.Printf("\r  adding files %d/%d", current, total)
		})
		fmt.Println()
		if err != nil {
			logger.Error("Archive build failed", zap.Error(err))
			return fmt.Errorf("archive build failed: %w", err)
		}

		outPath := filepath.Join(createOutDir, name+".zip")
		if err := os.WriteFile(outPath, result.Blob, 0644); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}

		saved := 0.0
		if result.RawBytes > 0 {
			saved = float64(result.RawBytes-result.CompressedBytes) / float64(result.RawBytes) * 100
		}

		color.Green("Created %s", outPath)
		fmt.Printf("  files:      %d\n", result.FilesAdded)
		fmt.Printf("  raw:        %s\n", format.Bytes(result.RawBytes))
		fmt.Printf("  compressed: %s (%.1f%% saved)\n", format.Bytes(result.CompressedBytes), saved)
		fmt.Printf("  sha-256:    %s\n", result.Digest)

		if createCopyDigest {
			if err := clipboard.WriteAll(result.Digest); err != nil {
				logger.Warn("Failed to copy digest to clipboard", zap.Error(err))
			} else {
				fmt.Println("  digest copied to clipboard")
			}
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "Archive name without extension (default: folder name)")
	createCmd.Flags().StringVar(&createOutDir, "out-dir", ".", "Directory to write the archive into")
	createCmd.Flags().StringArrayVarP(&createExcludes, "exclude", "e", nil, "Additional exclusion pattern for this run (repeatable)")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the surviving tree and stats without archiving")
	createCmd.Flags().BoolVar(&createCopyDigest, "copy-digest", false, "Copy the archive digest to the clipboard")
	createCmd.Flags().StringVar(&createEventsURL, "events-url", "", "Optional HTTP endpoint for completion events")

	RootCmd.AddCommand(createCmd)
}
