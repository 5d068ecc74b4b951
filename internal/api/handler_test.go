// internal/api/handler_test.go
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/common/database"
	apperrors "callguard/internal/common/errors"
	"callguard/internal/common/logger"
	"callguard/internal/directory"
	"callguard/internal/engine"
	"callguard/internal/models"
	"callguard/internal/scorer/affiliation"
	"callguard/internal/scorer/geofit"
	"callguard/internal/scorer/kyc"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const knownPhone = "+40712345678"

type stubStore struct {
	identities map[string]*models.ReferenceIdentity
	locations  map[string]*models.ReferenceLocation
}

func (s *stubStore) IdentityByPhone(_ context.Context, phone string) (*models.ReferenceIdentity, error) {
	if ident, ok := s.identities[phone]; ok {
		return ident, nil
	}
	return nil, apperrors.NewReferenceNotFoundError("stub", phone)
}

func (s *stubStore) LocationByPhone(_ context.Context, phone string) (*models.ReferenceLocation, error) {
	if loc, ok := s.locations[phone]; ok {
		return loc, nil
	}
	return nil, apperrors.NewReferenceNotFoundError("stub", phone)
}

func (s *stubStore) LatestSimChange(_ context.Context, phone string) (*models.SimSwapRecord, error) {
	return nil, apperrors.NewReferenceNotFoundError("stub", phone)
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.transcript, s.err
}

type stubExtractor struct {
	claim *models.CallerClaim
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*models.CallerClaim, error) {
	s.calls++
	return s.claim, s.err
}

func testStore() *stubStore {
	return &stubStore{
		identities: map[string]*models.ReferenceIdentity{
			knownPhone: {
				PhoneNumber: knownPhone,
				Name:        "Marcel Barosanu",
				GivenName:   "Marcel",
				FamilyName:  "Barosanu",
				Address:     "Strada Nicolae Iancu 5, Sibiu",
				StreetName:  "Nicolae Iancu",
				Locality:    "Sibiu",
				Country:     "Romania",
			},
		},
		locations: map[string]*models.ReferenceLocation{
			knownPhone: {PhoneNumber: knownPhone, Latitude: 45.79, Longitude: 24.14, AccuracyRadius: 500},
		},
	}
}

type testEnv struct {
	router    *gin.Engine
	extractor *stubExtractor
	cache     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNoOpLogger()
	store := testStore()

	location := geofit.NewService(geofit.LoadConfig("city", 2000), store, store, nil, log)
	company := affiliation.NewService(directory.New([]models.Organization{
		{
			Name:         "Orange Romania",
			CompanyPhone: "+40211234567",
			Employees: []models.Employee{
				{Name: "Marcel Barosanu", PhoneNumber: knownPhone},
			},
		},
	}), log)
	identity := kyc.NewService(store, log)

	eng, err := engine.New(engine.DefaultConfig(), location, company, identity, store, nil, log)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	extractor := &stubExtractor{claim: &models.CallerClaim{Name: "Marcel Barosanu", Locality: "Sibiu"}}
	h := NewHandler(HandlerDeps{
		Engine:      eng,
		Location:    location,
		Identity:    identity,
		Transcriber: &stubTranscriber{transcript: "Buna ziua, sunt Marcel."},
		Extractor:   extractor,
		Cache:       cache,
		CacheTTL:    time.Minute,
		Logger:      log,
	})

	return &testEnv{router: NewRouter(h, log), extractor: extractor, cache: mr}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScoreWithClaim(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", ScoreRequest{
		CallerPhone: knownPhone,
		Claim: &models.CallerClaim{
			Name:        "Marcel Barosanu",
			Locality:    "Sibiu",
			Address:     "Strada Nicolae Iancu 5, Sibiu",
			CompanyName: "Orange Romania",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.FraudVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.Equal(t, models.RiskLow, verdict.RiskLevel)
	assert.LessOrEqual(t, verdict.OverallScamScore, 15)
	assert.NotEmpty(t, verdict.EvaluationID)
	assert.Equal(t, knownPhone, verdict.CallerPhone)
}

func TestScoreMissingPhoneRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", map[string]interface{}{
		"transcript": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestScoreUnknownFieldRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", map[string]interface{}{
		"callerPhone": knownPhone,
		"calerClaim":  "typo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreWithTranscript(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", ScoreRequest{
		CallerPhone: knownPhone,
		Transcript:  "Buna ziua, sunt Marcel din Sibiu.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.extractor.calls)
}

func TestScoreWithAudio(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", ScoreRequest{
		CallerPhone: knownPhone,
		Audio:       base64.StdEncoding.EncodeToString([]byte("fake-audio")),
		AudioFormat: "mp3",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.extractor.calls)
}

func TestScoreExtractionFailureDegradesToEmptyClaim(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.err = apperrors.NewExtractionFailedError(context.DeadlineExceeded)
	env.extractor.claim = nil

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", ScoreRequest{
		CallerPhone: knownPhone,
		Transcript:  "garbled",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.FraudVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.Contains(t, verdict.RiskFactors, "No location provided")
}

func TestScoreInvalidBase64Audio(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/score", ScoreRequest{
		CallerPhone: knownPhone,
		Audio:       "%%%not-base64%%%",
		AudioFormat: "mp3",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	body := ScoreRequest{
		CallerPhone: knownPhone,
		Claim:       &models.CallerClaim{Name: "Marcel Barosanu", Locality: "Sibiu"},
	}

	first := doJSON(t, env.router, http.MethodPost, "/v1/score", body)
	require.Equal(t, http.StatusOK, first.Code)
	var v1 models.FraudVerdict
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &v1))

	second := doJSON(t, env.router, http.MethodPost, "/v1/score", body)
	require.Equal(t, http.StatusOK, second.Code)
	var v2 models.FraudVerdict
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &v2))

	// A fresh evaluation would mint a new ID; the cached verdict keeps it.
	assert.Equal(t, v1.EvaluationID, v2.EvaluationID)
}

func TestVerifyLocation(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/location/verify", LocationVerifyRequest{
		PhoneNumber: knownPhone,
		Latitude:    45.79,
		Longitude:   24.14,
		Radius:      2000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var sub models.SubScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.LessOrEqual(t, sub.Score, 15)
}

func TestVerifyLocationInvalidRadius(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/location/verify", LocationVerifyRequest{
		PhoneNumber: knownPhone,
		Latitude:    45.79,
		Longitude:   24.14,
		Radius:      100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestMatchKYC(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/kyc/match", KYCMatchRequest{
		PhoneNumber: knownPhone,
		Claim:       models.CallerClaim{Name: "Marcel Barosanu", Locality: "Bucharest"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report kyc.FieldReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, kyc.MatchTrue, report.Fields["name"])
	assert.Equal(t, kyc.MatchFalse, report.Fields["locality"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
