// internal/speech/extractor.go
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"
	"callguard/internal/models"
)

// The extraction prompt targets the CALLER side of the conversation: a
// suspected scammer's claimed identity, location, and company affiliation.
const extractionSystemPrompt = `You are a fraud detection assistant analyzing phone call transcripts. Extract information about the CALLER (potential scammer) from the conversation.

Extract these fields about the CALLER if present:
- phoneNumber: Phone number of the caller (format: +country_code and number)
- idDocument: ID document number they mention
- name: Full name the caller claims or uses
- givenName: First name of the caller
- middleNames: Middle name(s)
- familyName: Last name / Surname of the caller
- familyNameAtBirth: Family name at birth (maiden name)
- birthdate: Birth date they mention (format: YYYY-MM-DD)
- country: Country the caller claims to be from or is located in (ISO 2-letter code like RO, US, UK)
- locality: City the caller mentions or is calling from
- region: Region, state, or province
- address: Full address they mention
- streetName: Street name only
- streetNumber: Street number / house number
- houseNumberExtension: Apartment/Suite
- postalCode: Postal code
- email: Email address of the caller
- gender: Gender (MALE, FEMALE, OTHER)
- claimsCompanyAffiliation: Boolean - does the caller claim to represent a company/organization?
- companyName: Name of the company/organization they claim to represent

Rules:
1. Extract information about the CALLER, not the person being called.
2. Set claimsCompanyAffiliation to true if the caller mentions working for or representing ANY company, bank, support service, or government agency.
3. Return null for fields not determinable from the conversation.
4. Format dates as YYYY-MM-DD and countries as ISO 2-letter codes.

Return valid JSON with only the fields above.`

// Extractor pulls a structured CallerClaim out of a transcript through a
// chat-completion call with JSON response formatting.
type Extractor struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewExtractor(cfg config.SpeechConfig) *Extractor {
	return &Extractor{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.ExtractionModel,
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract parses the transcript into a CallerClaim. An empty claim is a
// valid outcome: the caller may simply have stated nothing verifiable.
func (e *Extractor) Extract(ctx context.Context, transcript string) (*models.CallerClaim, error) {
	if transcript == "" {
		return nil, apperrors.NewExtractionFailedError(fmt.Errorf("empty transcript"))
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: "Extract user information from this text:\n\n" + transcript},
		},
		Temperature: 0.1,
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.NewExtractionFailedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, apperrors.NewExtractionFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExtractionFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperrors.NewExtractionFailedError(
			fmt.Errorf("extraction API returned %d: %s", resp.StatusCode, string(raw)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewExtractionFailedError(err)
	}
	if len(out.Choices) == 0 {
		return nil, apperrors.NewExtractionFailedError(fmt.Errorf("no choices in response"))
	}

	var claim models.CallerClaim
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &claim); err != nil {
		return nil, apperrors.NewExtractionFailedError(err)
	}
	return &claim, nil
}
