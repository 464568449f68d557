package ledger

import "errors"

var (
	// ErrSchemaCorrupt means the ledger file exists but cannot be parsed as a
	// workbook. The store refuses to touch it unless opened with
	// WithRecreateCorrupt, which discards the file and starts over.
	ErrSchemaCorrupt = errors.New("ledger file is not a readable workbook")

	// ErrStoreUnavailable means the ledger file cannot be created or read at
	// the configured path.
	ErrStoreUnavailable = errors.New("ledger file unavailable")

	// ErrStatsUnavailable means statistics could not be derived because the
	// table could not be read; callers fall back to in-memory run counters.
	ErrStatsUnavailable = errors.New("ledger statistics unavailable")
)
