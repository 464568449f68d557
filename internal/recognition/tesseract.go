package recognition

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs OCR locally and derives fields with the questionnaire
// parser. It needs the tesseract shared library and rus+eng trained data.
type Tesseract struct {
	tessdataPrefix string
	languages      []string
}

// NewTesseract creates a local Tesseract recognition backend. tessdataPrefix
// may be empty to use the system default trained-data location.
func NewTesseract(tessdataPrefix string) (*Tesseract, error) {
	return &Tesseract{
		tessdataPrefix: tessdataPrefix,
		languages:      []string{"rus", "eng"},
	}, nil
}

// Recognize runs OCR over the questionnaire image and pairs recognized
// question lines with their answers.
func (t *Tesseract) Recognize(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pngData, err := prepareImage(imageData, contentType)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("setting tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("setting languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return nil, fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return &ScanResult{
		Success: true,
		Fields:  parseQuestionnaireText(text),
		RawText: text,
	}, nil
}

// Close releases backend resources. The gosseract client is per-call, so
// there is nothing to release here.
func (t *Tesseract) Close() error {
	return nil
}
