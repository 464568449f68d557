package recognition

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseQuestionnaireText", func() {
	It("pairs each question with the next non-empty line", func() {
		text := "Visit date\n\n18.12\nTable number\n7\n"
		fields := parseQuestionnaireText(text)

		Expect(fields[FieldDate]).To(Equal("18.12"))
		Expect(fields[FieldTableNumber]).To(Equal("7"))
	})

	It("leaves a question empty when the next line is another question", func() {
		text := "Visit date\nTable number\n7"
		fields := parseQuestionnaireText(text)

		Expect(fields[FieldDate]).To(Equal(""))
		Expect(fields[FieldTableNumber]).To(Equal("7"))
	})

	It("leaves a trailing question empty", func() {
		text := "Phone number"
		fields := parseQuestionnaireText(text)

		Expect(fields).To(HaveKey(FieldPhoneNumber))
		Expect(fields[FieldPhoneNumber]).To(Equal(""))
	})

	It("ignores lines that match no question", func() {
		text := "smudge\nVisit date\n18.12\nnoise at the bottom"
		fields := parseQuestionnaireText(text)

		Expect(fields[FieldDate]).To(Equal("18.12"))
		Expect(fields).To(HaveLen(1))
	})

	It("returns no keys for empty text", func() {
		Expect(parseQuestionnaireText("")).To(BeEmpty())
	})
})

var _ = Describe("Embedded", func() {
	var backend *Embedded

	BeforeEach(func() {
		backend = NewEmbedded()
	})

	It("returns a successful canned result", func() {
		result, err := backend.Recognize(context.Background(), []byte("any image"), "image/jpeg")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())
		Expect(result.RawText).NotTo(BeEmpty())
	})

	It("fills every questionnaire field", func() {
		result, err := backend.Recognize(context.Background(), nil, "")
		Expect(err).NotTo(HaveOccurred())

		for _, key := range FieldKeys() {
			Expect(result.Field(key)).NotTo(BeEmpty(), "field %s", key)
		}
		Expect(result.Field(FieldDate)).To(Equal("18.12"))
		Expect(result.Field(FieldTableNumber)).To(Equal("7"))
		Expect(result.Field(FieldPhoneNumber)).To(Equal("+7 900 123 45 67"))
	})

	It("honors a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := backend.Recognize(ctx, nil, "")
		Expect(err).To(HaveOccurred())
	})
})
