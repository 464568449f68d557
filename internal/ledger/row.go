package ledger

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/3qupo/DocumentProcessor/internal/recognition"
)

// Row is one ledger record, keyed by canonical column name. Columns without a
// value are simply absent and read back as empty strings.
type Row map[string]string

const (
	// StatusSuccess is the exact status marker a successfully processed
	// questionnaire carries. Statistics match against it verbatim.
	StatusSuccess = "success"

	// errorComment is the fixed comment placed on synthesized failure rows.
	errorComment = "processing error"

	// rawTextLimit caps how much recognized text is stored per row.
	rawTextLimit = 500

	// errorDescLimit caps the error description embedded in the status column.
	errorDescLimit = 50

	submittedAtFormat = "02.01.2006 15:04"
)

// fieldColumns maps recognition field keys to their ledger columns.
var fieldColumns = map[recognition.FieldKey]string{
	recognition.FieldDate:          ColVisitDate,
	recognition.FieldTableNumber:   ColTableNumber,
	recognition.FieldLocation:      ColVenue,
	recognition.FieldSatisfaction:  ColSatisfaction,
	recognition.FieldPlaylistLiked: ColPlaylistLiked,
	recognition.FieldTracksToAdd:   ColTracksToAdd,
	recognition.FieldLocationLiked: ColVenueLiked,
	recognition.FieldKitchenLiked:  ColKitchenAndBar,
	recognition.FieldServiceOK:     ColServiceOK,
	recognition.FieldHostWork:      ColHostWork,
	recognition.FieldVisitsCount:   ColVisitCount,
	recognition.FieldTicketPrice:   ColTicketPrice,
	recognition.FieldKnowBooking:   ColKnowsBooking,
	recognition.FieldSourceInfo:    ColHeardFrom,
	recognition.FieldPurpose:       ColVisitPurpose,
	recognition.FieldImprovements:  ColImprovements,
	recognition.FieldPhoneNumber:   ColPhone,
}

// NewSuccessRow builds the ledger row for a successfully recognized
// questionnaire. Missing field keys become empty strings, and recognized text
// is truncated to 500 characters with a trailing ellipsis when longer.
func NewSuccessRow(result *recognition.ScanResult, sourcePath, operator, comment string, elapsed time.Duration, submittedAt time.Time) Row {
	row := Row{
		ColSubmittedAt:    submittedAt.Format(submittedAtFormat),
		ColSourceFile:     filepath.Base(sourcePath),
		ColStatus:         StatusSuccess,
		ColProcessingTime: formatMillis(elapsed),
		ColRawText:        truncateRawText(result.RawText),
		ColOperator:       operator,
		ColComment:        comment,
	}
	for key, col := range fieldColumns {
		row[col] = result.Field(key)
	}
	return row
}

// NewErrorRow builds the ledger row recorded for a failed attempt. All domain
// columns stay empty; the status column carries a truncated error description.
func NewErrorRow(sourcePath, errDesc, operator string, submittedAt time.Time) Row {
	source := ""
	if sourcePath != "" {
		source = filepath.Base(sourcePath)
	}
	if r := []rune(errDesc); len(r) > errorDescLimit {
		errDesc = string(r[:errorDescLimit])
	}
	return Row{
		ColSubmittedAt: submittedAt.Format(submittedAtFormat),
		ColSourceFile:  source,
		ColStatus:      fmt.Sprintf("error: %s", errDesc),
		ColOperator:    operator,
		ColComment:     errorComment,
	}
}

func truncateRawText(text string) string {
	if r := []rune(text); len(r) > rawTextLimit {
		return string(r[:rawTextLimit]) + "..."
	}
	return text
}

func formatMillis(elapsed time.Duration) string {
	ms := float64(elapsed.Microseconds()) / 1000.0
	return strconv.FormatFloat(math.Round(ms*10)/10, 'f', 1, 64)
}
