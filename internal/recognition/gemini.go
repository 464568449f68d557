package recognition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// questionnaireScanPrompt is the shared prompt used by the vision-model
// backends for extracting questionnaire fields.
const questionnaireScanPrompt = `You are reading a scanned paper guest questionnaire from a music quiz event. Read all handwritten and printed text in the image and extract the guest's answers.

Return ONLY valid JSON in this exact format:
{
  "success": true,
  "fields": {
    "date": "",
    "table_number": "",
    "location": "",
    "satisfaction": "",
    "playlist_liked": "",
    "tracks_to_add": "",
    "location_liked": "",
    "kitchen_liked": "",
    "service_ok": "",
    "host_work": "",
    "visits_count": "",
    "ticket_price": "",
    "know_booking": "",
    "source_info": "",
    "purpose": "",
    "improvements": "",
    "phone_number": ""
  },
  "raw_text": ""
}

Field meanings:
- date: the visit date written on the form (e.g. "18.12")
- table_number: the table number
- location: where the game took place
- satisfaction: whether the guest was satisfied with the visit
- playlist_liked: whether the guest liked the playlist
- tracks_to_add: tracks the guest would add
- location_liked: whether the guest liked the venue
- kitchen_liked: opinion on the kitchen and bar
- service_ok: whether service and serving time were satisfactory
- host_work: opinion on the host
- visits_count: how many times the guest has attended
- ticket_price: opinion on the ticket price
- know_booking: whether the guest knows the event can be booked privately
- source_info: how the guest heard about the event
- purpose: what the guest usually attends for
- improvements: suggested improvements
- phone_number: phone number if the guest left one

Important:
- Leave a field as an empty string when the answer is absent or unreadable
- raw_text must contain the full recognized text of the form
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// Gemini implements the Recognizer interface using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini recognition backend.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Recognize analyzes a questionnaire image and extracts its fields.
func (g *Gemini) Recognize(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pngData, err := prepareImage(imageData, contentType)
	if err != nil {
		return nil, err
	}

	parts := []genai.Part{
		genai.ImageData("png", pngData),
		genai.Text(questionnaireScanPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	result, err := parseScanJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing questionnaire data: %w", err)
	}
	return result, nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
