package ledger

// Canonical column names. The header row written from this list is the single
// source of truth for column identity; the order is fixed and must never change.
const (
	ColSubmittedAt    = "Submitted At"
	ColSourceFile     = "Source File"
	ColVisitDate      = "Visit Date"
	ColTableNumber    = "Table Number"
	ColVenue          = "Venue"
	ColSatisfaction   = "Visit Satisfaction"
	ColPlaylistLiked  = "Playlist Liked"
	ColTracksToAdd    = "Tracks To Add"
	ColVenueLiked     = "Venue Liked"
	ColKitchenAndBar  = "Kitchen And Bar"
	ColServiceOK      = "Service OK"
	ColHostWork       = "Host Performance"
	ColVisitCount     = "Visit Count"
	ColTicketPrice    = "Ticket Price Opinion"
	ColKnowsBooking   = "Knows About Booking"
	ColHeardFrom      = "Heard From"
	ColVisitPurpose   = "Visit Purpose"
	ColImprovements   = "Improvements"
	ColPhone          = "Phone"
	ColStatus         = "Processing Status"
	ColProcessingTime = "Processing Time (ms)"
	ColRawText        = "Raw Text"
	ColOperator       = "Operator"
	ColComment        = "Comment"
)

// canonicalColumns is the fixed, ordered column list every ledger file must carry.
var canonicalColumns = []string{
	ColSubmittedAt,
	ColSourceFile,
	ColVisitDate,
	ColTableNumber,
	ColVenue,
	ColSatisfaction,
	ColPlaylistLiked,
	ColTracksToAdd,
	ColVenueLiked,
	ColKitchenAndBar,
	ColServiceOK,
	ColHostWork,
	ColVisitCount,
	ColTicketPrice,
	ColKnowsBooking,
	ColHeardFrom,
	ColVisitPurpose,
	ColImprovements,
	ColPhone,
	ColStatus,
	ColProcessingTime,
	ColRawText,
	ColOperator,
	ColComment,
}

// columnWidths holds per-column display widths in Excel character units.
var columnWidths = map[string]float64{
	ColSubmittedAt:    15,
	ColSourceFile:     20,
	ColVisitDate:      12,
	ColTableNumber:    12,
	ColVenue:          20,
	ColSatisfaction:   20,
	ColPlaylistLiked:  20,
	ColTracksToAdd:    25,
	ColVenueLiked:     18,
	ColKitchenAndBar:  22,
	ColServiceOK:      20,
	ColHostWork:       18,
	ColVisitCount:     20,
	ColTicketPrice:    25,
	ColKnowsBooking:   25,
	ColHeardFrom:      25,
	ColVisitPurpose:   30,
	ColImprovements:   30,
	ColPhone:          18,
	ColStatus:         15,
	ColProcessingTime: 18,
	ColRawText:        40,
	ColOperator:       15,
	ColComment:        25,
}

// Columns returns the canonical ordered column list.
func Columns() []string {
	cols := make([]string, len(canonicalColumns))
	copy(cols, canonicalColumns)
	return cols
}

// columnWidth returns the display width for a column, with a default for
// columns the schema does not know about.
func columnWidth(name string) float64 {
	if w, ok := columnWidths[name]; ok {
		return w
	}
	return 20
}
