package ledger

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3qupo/DocumentProcessor/internal/recognition"
)

var _ = Describe("row preparation", func() {
	submitted := time.Date(2025, 12, 18, 21, 30, 0, 0, time.UTC)

	Describe("NewSuccessRow", func() {
		It("maps every recognized field to its column", func() {
			result := &recognition.ScanResult{
				Success: true,
				Fields: map[recognition.FieldKey]string{
					recognition.FieldDate:        "18.12",
					recognition.FieldTableNumber: "7",
					recognition.FieldLocation:    "Downtown hall",
					recognition.FieldPhoneNumber: "+7 900 123 45 67",
				},
				RawText: "some text",
			}

			row := NewSuccessRow(result, "/scans/form-001.jpg", "Ivan", "walk-in", 1500*time.Microsecond, submitted)

			Expect(row[ColVisitDate]).To(Equal("18.12"))
			Expect(row[ColTableNumber]).To(Equal("7"))
			Expect(row[ColVenue]).To(Equal("Downtown hall"))
			Expect(row[ColPhone]).To(Equal("+7 900 123 45 67"))
			Expect(row[ColSourceFile]).To(Equal("form-001.jpg"))
			Expect(row[ColStatus]).To(Equal(StatusSuccess))
			Expect(row[ColProcessingTime]).To(Equal("1.5"))
			Expect(row[ColOperator]).To(Equal("Ivan"))
			Expect(row[ColComment]).To(Equal("walk-in"))
			Expect(row[ColSubmittedAt]).To(Equal("18.12.2025 21:30"))
		})

		It("defaults missing field keys to empty strings", func() {
			result := &recognition.ScanResult{Success: true, Fields: map[recognition.FieldKey]string{}}

			row := NewSuccessRow(result, "form.jpg", "Ivan", "", time.Millisecond, submitted)

			Expect(row[ColVisitDate]).To(Equal(""))
			Expect(row[ColTableNumber]).To(Equal(""))
			Expect(row[ColImprovements]).To(Equal(""))
			Expect(row[ColPhone]).To(Equal(""))
			Expect(row[ColStatus]).To(Equal(StatusSuccess))
		})

		It("tolerates a nil fields map", func() {
			result := &recognition.ScanResult{Success: true}

			row := NewSuccessRow(result, "form.jpg", "Ivan", "", time.Millisecond, submitted)
			Expect(row[ColVisitDate]).To(Equal(""))
		})

		It("stores raw text up to 500 characters verbatim", func() {
			text := strings.Repeat("a", 500)
			result := &recognition.ScanResult{Success: true, RawText: text}

			row := NewSuccessRow(result, "form.jpg", "Ivan", "", time.Millisecond, submitted)
			Expect(row[ColRawText]).To(Equal(text))
		})

		It("truncates raw text beyond 500 characters and appends an ellipsis", func() {
			text := strings.Repeat("b", 740)
			result := &recognition.ScanResult{Success: true, RawText: text}

			row := NewSuccessRow(result, "form.jpg", "Ivan", "", time.Millisecond, submitted)
			Expect(row[ColRawText]).To(Equal(strings.Repeat("b", 500) + "..."))
		})
	})

	Describe("NewErrorRow", func() {
		It("leaves all domain columns empty and marks the status", func() {
			row := NewErrorRow("/scans/missing.jpg", "source file not found", "Ivan", submitted)

			Expect(row[ColStatus]).To(Equal("error: source file not found"))
			Expect(row[ColComment]).To(Equal("processing error"))
			Expect(row[ColSourceFile]).To(Equal("missing.jpg"))
			Expect(row[ColOperator]).To(Equal("Ivan"))
			Expect(row[ColVisitDate]).To(Equal(""))
			Expect(row[ColRawText]).To(Equal(""))
			Expect(row[ColProcessingTime]).To(Equal(""))
		})

		It("truncates the error description to 50 characters", func() {
			desc := strings.Repeat("x", 80)
			row := NewErrorRow("form.jpg", desc, "Ivan", submitted)

			Expect(row[ColStatus]).To(Equal("error: " + strings.Repeat("x", 50)))
		})

		It("tolerates an empty source path", func() {
			row := NewErrorRow("", "boom", "Ivan", submitted)
			Expect(row[ColSourceFile]).To(Equal(""))
		})
	})
})
