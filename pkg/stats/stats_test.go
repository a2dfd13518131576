package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/chrishacia/ZipDrop/pkg/store"
)

func TestLocalSinkAccumulates(t *testing.T) {
	st, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	sink := NewLocalSink(st)

	events := []Event{
		{FilesCount: 3, RawSizeBytes: 300, ZippedSizeBytes: 210},
		{FilesCount: 2, RawSizeBytes: 100, ZippedSizeBytes: 90},
	}
	for _, ev := range events {
		if err := sink.Record(context.Background(), ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	totals, err := st.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals failed: %v", err)
	}
	want := store.Totals{ArchivesCreated: 2, FilesArchived: 5, RawBytes: 400, CompressedBytes: 300}
	if totals != want {
		t.Errorf("totals = %+v, want %+v", totals, want)
	}
}

func TestHTTPSinkPostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
	}))
	defer srv.Close()

	ev := Event{FilesCount: 7, RawSizeBytes: 1000, ZippedSizeBytes: 640}
	if err := NewHTTPSink(srv.URL).Record(context.Background(), ev); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if got != ev {
		t.Errorf("posted event = %+v, want %+v", got, ev)
	}
}

func TestHTTPSinkErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewHTTPSink(srv.URL).Record(context.Background(), Event{}); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

type failingSink struct{}

func (failingSink) Record(context.Context, Event) error {
	return errors.New("sink down")
}

func TestEmitSwallowsSinkFailures(t *testing.T) {
	st, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	local := NewLocalSink(st)

	// Must not panic or abort; the local sink after the failing one still runs.
	Emit(context.Background(), zap.NewNop(), Event{FilesCount: 1}, failingSink{}, local, nil)

	totals, err := st.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals failed: %v", err)
	}
	if totals.ArchivesCreated != 1 {
		t.Errorf("local sink did not run after failing sink: %+v", totals)
	}
}
