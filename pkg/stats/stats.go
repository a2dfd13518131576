// Package stats fans a completion event out to its sinks: the local
// statistics accumulator and, when configured, a remote HTTP endpoint.
// Sink failures are swallowed and logged; they never affect the build's
// success reporting.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/store"
)

// Event is the completion record emitted after a successful archive build.
type Event struct {
	FilesCount      int   `json:"filesCount"`
	RawSizeBytes    int64 `json:"rawSizeBytes"`
	ZippedSizeBytes int64 `json:"zippedSizeBytes"`
}

// Sink consumes completion events.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// Emit sends the event to every sink, logging failures at Warn. It never
// returns an error.
func Emit(ctx context.Context, logger *zap.Logger, ev Event, sinks ...Sink) {
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, ev); err != nil {
			logger.Warn("Stats sink failed", zap.Error(err))
		}
	}
}

// LocalSink accumulates events into the persisted statistics totals.
type LocalSink struct {
	store *store.Store
}

// NewLocalSink creates a LocalSink over the given store.
func NewLocalSink(s *store.Store) *LocalSink {
	return &LocalSink{store: s}
}

// Record folds the event into the running totals.
func (l *LocalSink) Record(_ context.Context, ev Event) error {
	totals, err := l.store.LoadTotals()
	if err != nil {
		return err
	}
	totals.ArchivesCreated++
	totals.FilesArchived += ev.FilesCount
	totals.RawBytes += ev.RawSizeBytes
	totals.CompressedBytes += ev.ZippedSizeBytes
	return l.store.SaveTotals(totals)
}

// HTTPSink posts events to a remote endpoint, fire and forget.
type HTTPSink struct {
	url    string
	client *http.Client
}

// NewHTTPSink creates an HTTPSink for the given endpoint URL.
func NewHTTPSink(url string) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Record posts the event as JSON.
func (h *HTTPSink) Record(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("event endpoint returned %s", resp.Status)
	}
	return nil
}
