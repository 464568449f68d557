package ledger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Responses"

// Store is the single gateway to the persisted ledger workbook. Every
// operation reads the whole table, mutates it in memory, and rewrites the
// file, which is O(row count) per append. That is acceptable at the expected
// scale (hundreds to low thousands of rows) and is a documented limit, not an
// oversight.
//
// The store assumes a single writer. The mutex serializes appends within one
// process; two processes appending concurrently can still race and lose a row
// because the whole file is read-modify-written without a cross-process lock.
type Store struct {
	path            string
	recreateCorrupt bool

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRecreateCorrupt makes Open discard and recreate a ledger file that
// cannot be parsed as a workbook, instead of failing with ErrSchemaCorrupt.
// This throws away all historical rows; it must be an explicit choice.
func WithRecreateCorrupt() Option {
	return func(s *Store) { s.recreateCorrupt = true }
}

// Open creates the ledger workbook at path if it does not exist, or validates
// and migrates an existing one: any canonical column missing from the file is
// added to every existing row with an empty value. A file that already carries
// all canonical columns is left untouched.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Creating new ledger file", "path", path)
		if err := s.writeTable(Columns(), nil); err != nil {
			return nil, fmt.Errorf("creating ledger: %w", err)
		}
		return s, nil
	}

	headers, rows, err := s.readTable()
	if err != nil {
		if !s.recreateCorrupt {
			return nil, err
		}
		slog.Warn("Ledger file unreadable, recreating", "path", path, "error", err)
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("removing corrupt ledger: %w", err)
		}
		if err := s.writeTable(Columns(), nil); err != nil {
			return nil, fmt.Errorf("recreating ledger: %w", err)
		}
		return s, nil
	}

	missing := missingColumns(headers)
	if len(missing) == 0 {
		return s, nil
	}

	slog.Info("Adding missing ledger columns", "columns", missing)
	headers = append(headers, missing...)
	if err := s.writeTable(headers, rows); err != nil {
		return nil, fmt.Errorf("migrating ledger: %w", err)
	}
	return s, nil
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Append adds one row to the table, preserving the file's column order, and
// returns the row's 1-based worksheet position; the header is row 1, so the
// first data row is position 2. Not safe for concurrent writer processes.
func (s *Store) Append(row Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers, rows, err := s.readTable()
	if err != nil {
		return 0, err
	}

	rows = append(rows, row)
	if err := s.writeTable(headers, rows); err != nil {
		return 0, fmt.Errorf("appending row: %w", err)
	}
	return len(rows) + 1, nil
}

// ReadAll returns every data row in file order.
func (s *Store) ReadAll() ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rows, err := s.readTable()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// readTable loads the full table. The returned headers reflect the file, not
// the canonical list: the header row on disk is the source of truth.
func (s *Store) readTable() ([]string, []Row, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSchemaCorrupt, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", ErrSchemaCorrupt)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSchemaCorrupt, err)
	}
	if len(cells) == 0 {
		return nil, nil, nil
	}

	headers := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(Row, len(headers))
		for i, name := range headers {
			if i < len(line) {
				row[name] = line[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// writeTable rewrites the workbook in one whole-file overwrite and reapplies
// presentation formatting.
func (s *Store) writeTable(headers []string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerCells := make([]interface{}, len(headers))
	for i, name := range headers {
		headerCells[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerCells); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for n, row := range rows {
		cells := make([]interface{}, len(headers))
		for i, name := range headers {
			cells[i] = row[name]
		}
		anchor, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", n+2, err)
		}
		if err := f.SetSheetRow(sheetName, anchor, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", n+2, err)
		}
	}

	if err := s.applyFormatting(f, headers, len(rows)); err != nil {
		return fmt.Errorf("formatting ledger: %w", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// applyFormatting sets column widths, the styled header, thin borders over the
// used range, an autofilter, and a frozen header row.
func (s *Store) applyFormatting(f *excelize.File, headers []string, rowCount int) error {
	for i, name := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidth(name)); err != nil {
			return err
		}
	}

	thinBorders := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders,
	})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	if rowCount > 0 {
		bodyStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders})
		if err != nil {
			return err
		}
		lastCell, err := excelize.CoordinatesToCellName(len(headers), rowCount+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A2", lastCell, bodyStyle); err != nil {
			return err
		}
	}

	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return err
	}

	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, name := range headers {
		present[name] = true
	}
	var missing []string
	for _, name := range canonicalColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
