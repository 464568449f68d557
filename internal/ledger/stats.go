package ledger

import "fmt"

// Stats summarizes the persisted table.
type Stats struct {
	LedgerPath        string
	TotalRecords      int
	SuccessfulRecords int
	UniqueVisitDates  int
}

// Stats derives summary counts from the current table contents.
//
// UniqueVisitDates counts distinct non-empty values of the Submitted At
// column, not the Visit Date column. That reproduces the long-standing
// behavior of this ledger; every row written within the same minute collapses
// into one bucket. Do not change the column without a data owner's sign-off.
func (s *Store) Stats() (*Stats, error) {
	rows, err := s.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}

	stats := &Stats{
		LedgerPath:   s.path,
		TotalRecords: len(rows),
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if row[ColStatus] == StatusSuccess {
			stats.SuccessfulRecords++
		}
		if ts := row[ColSubmittedAt]; ts != "" {
			seen[ts] = true
		}
	}
	stats.UniqueVisitDates = len(seen)
	return stats, nil
}
