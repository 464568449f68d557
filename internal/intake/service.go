package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/3qupo/DocumentProcessor/internal/ledger"
	"github.com/3qupo/DocumentProcessor/internal/recognition"
)

// folderPatterns are the file globs a batch run picks up, matching the scan
// formats the recognition backends accept.
var folderPatterns = []string{"*.jpg", "*.png", "*.jpeg", "*.tiff", "*.bmp"}

// Ledger is the subset of the ledger store the service uses.
type Ledger interface {
	Append(row ledger.Row) (int, error)
	Stats() (*ledger.Stats, error)
	Path() string
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// RunCounters tracks attempts for the current process only. They start at
// zero every run and are never persisted; historical totals live in the
// ledger itself.
type RunCounters struct {
	Total    int
	Success  int
	Failed   int
	LastFile string
}

// ProcessResult reports the outcome of a single questionnaire.
type ProcessResult struct {
	Success    bool
	Message    string
	RowNumber  int
	SourceFile string
}

// BatchItem reports one file's outcome within a folder run.
type BatchItem struct {
	File    string
	Success bool
	Message string
	Row     int
}

// BatchResult reports a folder run.
type BatchResult struct {
	Total   int
	Success int
	Failed  int
	Details []BatchItem
}

// Statistics combines ledger-derived counts with the current run's counters.
// When the ledger cannot be read, the file-derived fields are zero and only
// the run counters are meaningful.
type Statistics struct {
	LedgerPath        string
	TotalRecords      int
	SuccessfulRecords int
	UniqueVisitDates  int
	Run               RunCounters
}

// Service processes questionnaire scans sequentially: one recognition, one
// ledger append per attempt. It is not safe for concurrent use.
type Service struct {
	ledger     Ledger
	recognizer recognition.Recognizer
	clock      Clock
	pace       time.Duration

	counters RunCounters
}

// NewService creates a Service with the system clock and the default pacing
// delay between batch items.
func NewService(ledger Ledger, recognizer recognition.Recognizer) *Service {
	return NewServiceWithDeps(ledger, recognizer, systemClock{}, 100*time.Millisecond)
}

// NewServiceWithDeps creates a Service with explicit clock and pacing, for
// tests and callers that tune the cosmetic inter-file delay. A nil clock
// means the system clock.
func NewServiceWithDeps(ledger Ledger, recognizer recognition.Recognizer, clock Clock, pace time.Duration) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{
		ledger:     ledger,
		recognizer: recognizer,
		clock:      clock,
		pace:       pace,
	}
}

// ProcessImage recognizes one questionnaire image and appends the outcome to
// the ledger. Failures (missing file, recognition error) are recorded as
// error rows rather than returned as errors, so a batch caller never aborts.
func (s *Service) ProcessImage(ctx context.Context, imagePath, operator, comment string) *ProcessResult {
	s.counters.Total++
	s.counters.LastFile = imagePath

	result := &ProcessResult{SourceFile: imagePath}

	if _, err := os.Stat(imagePath); err != nil {
		return s.recordFailure(result, imagePath, operator, fmt.Sprintf("source file not found: %s", imagePath))
	}

	slog.Info("Processing questionnaire", "file", filepath.Base(imagePath))

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return s.recordFailure(result, imagePath, operator, fmt.Sprintf("reading source file: %v", err))
	}

	start := s.clock.Now()
	scan, err := s.recognizer.Recognize(ctx, data, contentTypeFor(imagePath))
	elapsed := s.clock.Now().Sub(start)

	if err != nil {
		return s.recordFailure(result, imagePath, operator, fmt.Sprintf("recognition failed: %v", err))
	}
	if !scan.Success {
		msg := scan.ErrorMessage
		if msg == "" {
			msg = "unknown recognition error"
		}
		return s.recordFailure(result, imagePath, operator, fmt.Sprintf("recognition failed: %s", msg))
	}

	row := ledger.NewSuccessRow(scan, imagePath, operator, comment, elapsed, s.clock.Now())
	position, err := s.ledger.Append(row)
	if err != nil {
		return s.recordFailure(result, imagePath, operator, fmt.Sprintf("saving to ledger: %v", err))
	}

	s.counters.Success++
	result.Success = true
	result.RowNumber = position
	result.Message = fmt.Sprintf("questionnaire recorded at row %d", position)

	slog.Info("Questionnaire recorded",
		"file", filepath.Base(imagePath),
		"row", position,
		"visit_date", scan.Field(recognition.FieldDate),
		"table", scan.Field(recognition.FieldTableNumber),
	)
	return result
}

// recordFailure counts the failure and writes an error row. Ledger write
// failures here are logged, not surfaced: the audit trail is best effort once
// the attempt itself has already failed.
func (s *Service) recordFailure(result *ProcessResult, imagePath, operator, message string) *ProcessResult {
	s.counters.Failed++
	result.Message = message
	slog.Error("Questionnaire processing failed", "file", imagePath, "error", message)

	row := ledger.NewErrorRow(imagePath, message, operator, s.clock.Now())
	if _, err := s.ledger.Append(row); err != nil {
		slog.Error("Failed to record error row", "file", imagePath, "error", err)
	}
	return result
}

// ProcessFolder processes every questionnaire image in dir, sorted by name,
// one at a time. Per-file failures are recorded and do not stop the batch.
func (s *Service) ProcessFolder(ctx context.Context, dir, operator string) (*BatchResult, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder not found: %s", dir)
	}

	var files []string
	for _, pattern := range folderPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing folder: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no questionnaire images in folder: %s", dir)
	}

	slog.Info("Processing folder", "dir", dir, "files", len(files))

	batch := &BatchResult{Total: len(files)}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		result := s.ProcessImage(ctx, file, operator, fmt.Sprintf("batch item #%d", i+1))
		if result.Success {
			batch.Success++
		} else {
			batch.Failed++
		}
		batch.Details = append(batch.Details, BatchItem{
			File:    filepath.Base(file),
			Success: result.Success,
			Message: result.Message,
			Row:     result.RowNumber,
		})

		// Cosmetic pacing between files, not a contention control.
		if s.pace > 0 && i < len(files)-1 {
			time.Sleep(s.pace)
		}
	}

	slog.Info("Folder processed",
		"total", batch.Total,
		"success", batch.Success,
		"failed", batch.Failed,
	)
	return batch, nil
}

// Statistics returns ledger-derived counts merged with the run counters. When
// the ledger is unreadable it degrades to run counters only.
func (s *Service) Statistics() *Statistics {
	stats := &Statistics{
		LedgerPath: s.ledger.Path(),
		Run:        s.counters,
	}

	fileStats, err := s.ledger.Stats()
	if err != nil {
		if errors.Is(err, ledger.ErrStatsUnavailable) {
			slog.Warn("Ledger statistics unavailable, reporting run counters only", "error", err)
			return stats
		}
		slog.Warn("Reading ledger statistics failed", "error", err)
		return stats
	}

	stats.TotalRecords = fileStats.TotalRecords
	stats.SuccessfulRecords = fileStats.SuccessfulRecords
	stats.UniqueVisitDates = fileStats.UniqueVisitDates
	return stats
}

// Counters returns a copy of the current run counters.
func (s *Service) Counters() RunCounters {
	return s.counters
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "image/jpeg"
}
