package recognition

import "context"

// FieldKey identifies one questionnaire field in a ScanResult.
type FieldKey string

const (
	FieldDate          FieldKey = "date"
	FieldTableNumber   FieldKey = "table_number"
	FieldLocation      FieldKey = "location"
	FieldSatisfaction  FieldKey = "satisfaction"
	FieldPlaylistLiked FieldKey = "playlist_liked"
	FieldTracksToAdd   FieldKey = "tracks_to_add"
	FieldLocationLiked FieldKey = "location_liked"
	FieldKitchenLiked  FieldKey = "kitchen_liked"
	FieldServiceOK     FieldKey = "service_ok"
	FieldHostWork      FieldKey = "host_work"
	FieldVisitsCount   FieldKey = "visits_count"
	FieldTicketPrice   FieldKey = "ticket_price"
	FieldKnowBooking   FieldKey = "know_booking"
	FieldSourceInfo    FieldKey = "source_info"
	FieldPurpose       FieldKey = "purpose"
	FieldImprovements  FieldKey = "improvements"
	FieldPhoneNumber   FieldKey = "phone_number"
)

// FieldKeys returns every questionnaire field key in form order.
func FieldKeys() []FieldKey {
	return []FieldKey{
		FieldDate,
		FieldTableNumber,
		FieldLocation,
		FieldSatisfaction,
		FieldPlaylistLiked,
		FieldTracksToAdd,
		FieldLocationLiked,
		FieldKitchenLiked,
		FieldServiceOK,
		FieldHostWork,
		FieldVisitsCount,
		FieldTicketPrice,
		FieldKnowBooking,
		FieldSourceInfo,
		FieldPurpose,
		FieldImprovements,
		FieldPhoneNumber,
	}
}

// ScanResult is the structured output of one recognition attempt.
type ScanResult struct {
	Success      bool                `json:"success"`
	Fields       map[FieldKey]string `json:"fields"`
	RawText      string              `json:"raw_text"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// Field returns the value for key, or the empty string when the key is absent.
func (r *ScanResult) Field(key FieldKey) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[key]
}

// Recognizer extracts questionnaire fields from an image.
type Recognizer interface {
	// Recognize analyzes a questionnaire image and extracts its fields.
	Recognize(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error)
	// Close releases backend resources.
	Close() error
}
