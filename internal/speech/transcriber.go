// internal/speech/transcriber.go

// Package speech converts phone-call recordings into structured caller
// claims: a Whisper transcription step followed by a chat-completion
// extraction step. Both talk to an OpenAI-compatible API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"
)

// Transcriber turns call audio into text via the audio transcriptions API.
type Transcriber struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	client   *http.Client
}

func NewTranscriber(cfg config.SpeechConfig) *Transcriber {
	return &Transcriber{
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		model:    cfg.WhisperModel,
		language: cfg.Language,
		client:   &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio bytes as a multipart upload and returns the
// transcript text. format is the file extension of the recording (mp3, wav,
// webm).
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", apperrors.NewTranscriptionFailedError(fmt.Errorf("empty audio payload"))
	}
	if format == "" {
		format = "mp3"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "recording."+format)
	if err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}
	writer.WriteField("model", t.model)
	if t.language != "" {
		writer.WriteField("language", t.language)
	}
	writer.WriteField("response_format", "json")
	if err := writer.Close(); err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperrors.NewTranscriptionFailedError(
			fmt.Errorf("transcription API returned %d: %s", resp.StatusCode, string(raw)))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.NewTranscriptionFailedError(err)
	}
	return out.Text, nil
}
