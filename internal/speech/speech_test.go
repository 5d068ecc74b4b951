// internal/speech/speech_test.go
package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/common/config"
)

func testSpeechConfig(baseURL string) config.SpeechConfig {
	return config.SpeechConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		WhisperModel:    "whisper-1",
		ExtractionModel: "gpt-4o-mini",
		Language:        "ro",
		Timeout:         2000,
	}
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "ro", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "recording.mp3", header.Filename)

		w.Write([]byte(`{"text":"Buna ziua, sunt Marcel de la Orange."}`))
	}))
	defer server.Close()

	transcriber := NewTranscriber(testSpeechConfig(server.URL))
	text, err := transcriber.Transcribe(context.Background(), []byte("fake-audio-bytes"), "mp3")
	require.NoError(t, err)
	assert.Equal(t, "Buna ziua, sunt Marcel de la Orange.", text)
}

func TestTranscribeEmptyAudio(t *testing.T) {
	transcriber := NewTranscriber(testSpeechConfig("http://unused"))
	_, err := transcriber.Transcribe(context.Background(), nil, "mp3")
	require.Error(t, err)
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	transcriber := NewTranscriber(testSpeechConfig(server.URL))
	_, err := transcriber.Transcribe(context.Background(), []byte("audio"), "wav")
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		content := `{"name":"Marcel Barosanu","givenName":"Marcel","familyName":"Barosanu","locality":"Bucharest","country":"RO","claimsCompanyAffiliation":true,"companyName":"Orange Romania"}`
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	extractor := NewExtractor(testSpeechConfig(server.URL))
	claim, err := extractor.Extract(context.Background(), "Buna ziua, sunt Marcel Barosanu de la Orange Romania, va sun din Bucuresti.")
	require.NoError(t, err)

	assert.Equal(t, "Marcel Barosanu", claim.Name)
	assert.Equal(t, "Bucharest", claim.Locality)
	assert.True(t, claim.ClaimsCompanyAffiliation)
	assert.Equal(t, "Orange Romania", claim.CompanyName)
}

func TestExtractEmptyTranscript(t *testing.T) {
	extractor := NewExtractor(testSpeechConfig("http://unused"))
	_, err := extractor.Extract(context.Background(), "")
	require.Error(t, err)
}

func TestExtractMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"not json"}}]}`))
	}))
	defer server.Close()

	extractor := NewExtractor(testSpeechConfig(server.URL))
	_, err := extractor.Extract(context.Background(), "some transcript")
	require.Error(t, err)
}
