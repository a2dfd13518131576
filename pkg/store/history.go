package store

import "time"

// Totals are the running session statistics across all builds.
type Totals struct {
	ArchivesCreated int   `json:"archivesCreated"`
	FilesArchived   int   `json:"filesArchived"`
	RawBytes        int64 `json:"rawBytes"`
	CompressedBytes int64 `json:"compressedBytes"`
}

// BuildRecord is one completed archive build in the history.
type BuildRecord struct {
	ID              string    `json:"id"`
	Archive         string    `json:"archive"`
	SourceFolder    string    `json:"sourceFolder"`
	Files           int       `json:"files"`
	RawBytes        int64     `json:"rawBytes"`
	CompressedBytes int64     `json:"compressedBytes"`
	Digest          string    `json:"digest"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LoadTotals returns the persisted statistics totals, zero when absent.
func (s *Store) LoadTotals() (Totals, error) {
	var t Totals
	if _, err := s.Get(TotalsKey, &t); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// SaveTotals rewrites the persisted statistics totals.
func (s *Store) SaveTotals(t Totals) error {
	return s.Put(TotalsKey, t)
}

// LoadHistory returns the persisted build history, most recent first.
func (s *Store) LoadHistory() ([]BuildRecord, error) {
	var records []BuildRecord
	if _, err := s.Get(HistoryKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendHistory prepends a record to the build history, trimming it to
// HistoryLimit entries.
func (s *Store) AppendHistory(record BuildRecord) error {
	records, err := s.LoadHistory()
	if err != nil {
		return err
	}
	records = append([]BuildRecord{record}, records...)
	if len(records) > HistoryLimit {
		records = records[:HistoryLimit]
	}
	return s.Put(HistoryKey, records)
}
