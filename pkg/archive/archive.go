// Package archive assembles the final zip: a second full traversal of the
// scanned directory that reads every surviving file, streams it into the
// codec, and embeds a generated integrity manifest.
package archive

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/fsys"
)

// ManifestName is the well-known path of the manifest entry inside every
// archive this package produces.
const ManifestName = "ZIPDROP_MANIFEST.txt"

// Predicate reports whether the entry at the given relative path is
// excluded from the archive. It is the union of pattern and manual
// exclusion, applied identically to what the preview showed.
type Predicate func(path string) bool

// Result describes one completed build.
type Result struct {
	Blob            []byte // final archive including the manifest entry
	FilesAdded      int
	RawBytes        int64  // sum of included file sizes as read
	CompressedBytes int64  // archive size before the manifest entry was added
	Digest          string // sha-256 of the pre-manifest archive, lowercase hex
}

type entry struct {
	path string
	data []byte
}

// Assembler builds archives. The zero value is not usable; construct with
// New.
type Assembler struct {
	logger *zap.Logger

	// Progress, when set, is invoked after each file is added during the
	// collect phase with the running count and the total determined up
	// front.
	Progress func(current, total int)

	// Now supplies the manifest timestamp. Defaults to time.Now.
	Now func() time.Time
}

// New creates an Assembler.
func New(logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		logger: logger,
		Now:    time.Now,
	}
}

// Build archives every file under root that the predicate does not
// exclude, names the output outputName (without extension), and returns
// the final blob plus the byte accounting for it.
//
// The build runs in phases: count surviving files for determinate
// progress, collect file contents entry by entry in traversal order,
// finalize a provisional archive, digest it, synthesize the manifest, and
// finalize again with the manifest included. Any read or codec error
// aborts the whole build; no partial archive is returned.
func (a *Assembler) Build(ctx context.Context, root fsys.Dir, excluded Predicate, outputName string) (*Result, error) {
	if excluded == nil {
		excluded = func(string) bool { return false }
	}

	start := a.Now()

	total, err := a.countFiles(ctx, root, "", excluded)
	if err != nil {
		a.logger.Error("Failed to count files", zap.Error(err))
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	a.logger.Debug("Counted files to archive", zap.Int("total", total))

	var (
		entries  []entry
		rawBytes int64
		current  int
	)
	err = a.collect(ctx, root, "", excluded, func(path string, data []byte) {
		entries = append(entries, entry{path: path, data: data})
		rawBytes += int64(len(data))
		current++
		if a.Progress != nil {
			a.Progress(current, total)
		}
	})
	if err != nil {
		a.logger.Error("Failed to collect files", zap.Error(err))
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	provisional, err := writeZip(entries, nil)
	if err != nil {
		a.logger.Error("Failed to finalize archive", zap.Error(err))
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	sum := sha256.Sum256(provisional)
	digest := hex.EncodeToString(sum[:])

	manifest := renderManifest(manifestInfo{
		OutputName:      outputName,
		SourceFolder:    root.Name(),
		CreatedAt:       start,
		FilesAdded:      len(entries),
		RawBytes:        rawBytes,
		CompressedBytes: int64(len(provisional)),
		Digest:          digest,
	})

	final, err := writeZip(entries, manifest)
	if err != nil {
		a.logger.Error("Failed to finalize archive with manifest", zap.Error(err))
		return nil, fmt.Errorf("failed to finalize archive with manifest: %w", err)
	}

	a.logger.Info("Archive assembled",
		zap.String("output", outputName),
		zap.Int("files", len(entries)),
		zap.Int64("rawBytes", rawBytes),
		zap.Int64("compressedBytes", int64(len(provisional))),
		zap.Int64("finalBytes", int64(len(final))),
		zap.Duration("elapsed", a.Now().Sub(start)),
	)

	return &Result{
		Blob:            final,
		FilesAdded:      len(entries),
		RawBytes:        rawBytes,
		CompressedBytes: int64(len(provisional)),
		Digest:          digest,
	}, nil
}

// countFiles walks the directory applying the predicate and returns the
// number of surviving files.
func (a *Assembler) countFiles(ctx context.Context, dir fsys.Dir, rel string, excluded Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dirEntries, err := dir.Entries(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range dirEntries {
		path := joinRel(rel, e.Name)
		if excluded(path) {
			continue
		}
		if e.IsDir {
			sub, err := dir.Sub(e.Name)
			if err != nil {
				return 0, err
			}
			n, err := a.countFiles(ctx, sub, path, excluded)
			if err != nil {
				return 0, err
			}
			count += n
		} else {
			count++
		}
	}
	return count, nil
}

// collect walks the directory a second time, reading every surviving
// file's content and handing it to add in traversal order.
func (a *Assembler) collect(ctx context.Context, dir fsys.Dir, rel string, excluded Predicate, add func(path string, data []byte)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirEntries, err := dir.Entries(ctx)
	if err != nil {
		return err
	}

	for _, e := range dirEntries {
		path := joinRel(rel, e.Name)
		if excluded(path) {
			continue
		}
		if e.IsDir {
			sub, err := dir.Sub(e.Name)
			if err != nil {
				return err
			}
			if err := a.collect(ctx, sub, path, excluded, add); err != nil {
				return err
			}
		} else {
			f, err := dir.File(e.Name)
			if err != nil {
				return err
			}
			data, err := f.Read(ctx)
			if err != nil {
				return err
			}
			add(path, data)
			a.logger.Debug("Added file to archive", zap.String("path", path), zap.Int("sizeBytes", len(data)))
		}
	}
	return nil
}

// writeZip finalizes the archive for exactly the given entries, plus the
// manifest entry when manifest is non-nil. Entry metadata is fixed so the
// same content always produces the same bytes.
func writeZip(entries []entry, manifest []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		if err := addEntry(zw, e.path, e.data); err != nil {
			return nil, err
		}
	}
	if manifest != nil {
		if err := addEntry(zw, ManifestName, manifest); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func addEntry(zw *zip.Writer, path string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   path,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", path, err)
	}
	return nil
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
