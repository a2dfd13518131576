package archive

import (
	"fmt"
	"strings"
	"time"
)

type manifestInfo struct {
	OutputName      string
	SourceFolder    string
	CreatedAt       time.Time
	FilesAdded      int
	RawBytes        int64
	CompressedBytes int64
	Digest          string
}

// renderManifest produces the plain-text manifest entry. The digest covers
// the archive as finalized before this manifest was added, so the manifest
// can assert integrity of everything except itself.
func renderManifest(info manifestInfo) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "ZipDrop Archive Manifest\n")
	fmt.Fprintf(&b, "========================\n\n")
	fmt.Fprintf(&b, "Archive:          %s.zip\n", info.OutputName)
	fmt.Fprintf(&b, "Source folder:    %s\n", info.SourceFolder)
	fmt.Fprintf(&b, "Created:          %s (%s)\n",
		info.CreatedAt.Format(time.RFC3339),
		info.CreatedAt.Format("Mon, 02 Jan 2006 15:04:05 MST"))
	fmt.Fprintf(&b, "Files:            %d\n", info.FilesAdded)
	fmt.Fprintf(&b, "Raw size:         %d bytes\n", info.RawBytes)
	fmt.Fprintf(&b, "Compressed size:  %d bytes\n", info.CompressedBytes)
	fmt.Fprintf(&b, "Space saved:      %s\n", spaceSaved(info.RawBytes, info.CompressedBytes))
	fmt.Fprintf(&b, "SHA-256:          %s\n\n", info.Digest)
	fmt.Fprintf(&b, "The SHA-256 digest covers the archive content before this\n")
	fmt.Fprintf(&b, "manifest entry was added.\n")

	return []byte(b.String())
}

func spaceSaved(rawBytes, compressedBytes int64) string {
	if rawBytes <= 0 {
		return "0.0%"
	}
	saved := float64(rawBytes-compressedBytes) / float64(rawBytes) * 100
	return fmt.Sprintf("%.1f%%", saved)
}
