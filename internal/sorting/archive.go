package sorting

import (
	"encoding/json"
	"fmt"
	"os"
)

// archive is the on-disk JSON shape of a sorting. The unit order in the file
// is not significant; ids are re-sorted on load.
type archive struct {
	SampleRate float64       `json:"sample_rate"`
	Units      []archiveUnit `json:"units"`
}

type archiveUnit struct {
	ID     int     `json:"unit_id"`
	Frames []int64 `json:"frames"`
}

// Write persists the sorting as a JSON archive at path.
func Write(path string, s *Sorting) error {
	ar := archive{SampleRate: s.sampleRate}
	for _, id := range s.unitIDs {
		ar.Units = append(ar.Units, archiveUnit{ID: id, Frames: s.trains[id]})
	}
	data, err := json.MarshalIndent(&ar, "", "  ")
	if err != nil {
		return fmt.Errorf("sorting: marshal archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sorting: write archive: %w", err)
	}
	return nil
}

// Read loads a sorting from a JSON archive at path.
func Read(path string) (*Sorting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sorting: read archive: %w", err)
	}
	var ar archive
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, fmt.Errorf("sorting: unmarshal archive %q: %w", path, err)
	}
	s := New(ar.SampleRate)
	for _, u := range ar.Units {
		s.SetUnit(u.ID, u.Frames)
	}
	return s, nil
}
