package recognition

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRecognition(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Recognition Suite")
}

var _ = Describe("parseScanJSON", func() {
	var (
		jsonInput string
		result    *ScanResult
		err       error
	)

	JustBeforeEach(func() {
		result, err = parseScanJSON(jsonInput)
	})

	When("parsing valid JSON", func() {
		BeforeEach(func() {
			jsonInput = `{"success": true, "fields": {"date": "18.12", "table_number": "7"}, "raw_text": "Visit date\n18.12"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report success", func() {
			Expect(result.Success).To(BeTrue())
		})

		It("should parse the fields", func() {
			Expect(result.Field(FieldDate)).To(Equal("18.12"))
			Expect(result.Field(FieldTableNumber)).To(Equal("7"))
		})

		It("should keep the raw text", func() {
			Expect(result.RawText).To(Equal("Visit date\n18.12"))
		})
	})

	When("parsing JSON with markdown code blocks", func() {
		BeforeEach(func() {
			jsonInput = "```json\n{\"success\": true, \"fields\": {\"date\": \"18.12\"}}\n```"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should parse the fields", func() {
			Expect(result.Field(FieldDate)).To(Equal("18.12"))
		})
	})

	When("parsing JSON surrounded by prose", func() {
		BeforeEach(func() {
			jsonInput = `Here is the extracted data: {"success": true, "fields": {"date": "18.12"}} hope that helps`
		})

		It("should extract the object", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Field(FieldDate)).To(Equal("18.12"))
		})
	})

	When("the fields object is absent", func() {
		BeforeEach(func() {
			jsonInput = `{"success": true, "raw_text": "scrawl"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should default every field key to empty", func() {
			for _, key := range FieldKeys() {
				Expect(result.Field(key)).To(Equal(""))
			}
		})
	})

	When("field values carry surrounding whitespace", func() {
		BeforeEach(func() {
			jsonInput = `{"success": true, "fields": {"location": "  Downtown hall  "}}`
		})

		It("should trim them", func() {
			Expect(result.Field(FieldLocation)).To(Equal("Downtown hall"))
		})
	})

	When("the backend reports failure without a message", func() {
		BeforeEach(func() {
			jsonInput = `{"success": false}`
		})

		It("should fill in a default error message", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeFalse())
			Expect(result.ErrorMessage).NotTo(BeEmpty())
		})
	})

	When("the backend reports failure with a message", func() {
		BeforeEach(func() {
			jsonInput = `{"success": false, "error_message": "image too blurry"}`
		})

		It("should keep the message", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ErrorMessage).To(Equal("image too blurry"))
		})
	})

	When("the response contains no JSON object", func() {
		BeforeEach(func() {
			jsonInput = "sorry, I cannot read this image"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the response contains malformed JSON", func() {
		BeforeEach(func() {
			jsonInput = `{"success": true, "fields": {`
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
