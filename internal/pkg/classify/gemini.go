package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/env"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
const defaultModel = "gemini-2.0-flash-001"

const freshPrompt = "This is a civic issue reporting system. Describe the issue " +
	"in detail to report it and specify which category and department does it " +
	"come under. Also set duplicate to false"

// GeminiOracle implements Oracle against the Gemini generateContent REST API.
// The response schema pins the model output to the closed category and
// department enumerations so malformed verdicts fail at the boundary.
type GeminiOracle struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func NewGeminiOracle() *GeminiOracle {
	return &GeminiOracle{
		apiKey:  env.GetEnv("GEMINI_API_KEY", ""),
		model:   env.GetEnv("GEMINI_MODEL", defaultModel),
		baseURL: env.GetEnv("GEMINI_BASE_URL", defaultBaseURL),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   responseSchema `json:"responseSchema"`
}

type responseSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type schemaProperty struct {
	Type string   `json:"type"`
	Enum []string `json:"enum,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func judgementSchema() responseSchema {
	categories := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, string(c))
	}
	departments := make([]string, 0, len(models.Departments))
	for _, d := range models.Departments {
		departments = append(departments, string(d))
	}
	return responseSchema{
		Type: "object",
		Properties: map[string]schemaProperty{
			"description": {Type: "string"},
			"category":    {Type: "string", Enum: categories},
			"department":  {Type: "string", Enum: departments},
			"duplicate":   {Type: "boolean"},
		},
		Required: []string{"description", "category", "department", "duplicate"},
	}
}

func referencePrompt(ref *Reference) string {
	if ref == nil {
		return freshPrompt
	}
	return "This is a civic issue reporting system. Check if this image matches " +
		"the description '" + ref.Description + "' and category '" + string(ref.Category) +
		"'. If it does, set duplicate to true. If false, describe the issue in " +
		"detail to report, categorise and specify which department does it come under."
}

// Classify sends the image and prompt to Gemini and decodes the structured
// verdict. The caller-supplied context carries the timeout; any failure on
// the way wraps ErrClassificationFailed.
func (g *GeminiOracle) Classify(ctx context.Context, image []byte, mimeType string, ref *Reference) (Judgement, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
				{Text: referencePrompt(ref)},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   judgementSchema(),
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Judgement{}, fmt.Errorf("%w: encode request: %v", ErrClassificationFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Judgement{}, fmt.Errorf("%w: build request: %v", ErrClassificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return Judgement{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Judgement{}, fmt.Errorf("%w: read response: %v", ErrClassificationFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Judgement{}, fmt.Errorf("%w: oracle returned status %d", ErrClassificationFailed, resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return Judgement{}, fmt.Errorf("%w: decode response: %v", ErrClassificationFailed, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return Judgement{}, fmt.Errorf("%w: empty candidate list", ErrClassificationFailed)
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "`")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSpace(text)

	var j Judgement
	if err := json.Unmarshal([]byte(text), &j); err != nil {
		return Judgement{}, fmt.Errorf("%w: decode judgement: %v", ErrClassificationFailed, err)
	}
	if err := j.validate(ref); err != nil {
		return Judgement{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return j, nil
}
