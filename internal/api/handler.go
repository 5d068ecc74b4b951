// internal/api/handler.go
package api

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callguard/internal/alert"
	"callguard/internal/audit"
	"callguard/internal/common/database"
	apperrors "callguard/internal/common/errors"
	"callguard/internal/common/logger"
	"callguard/internal/common/metrics"
	"callguard/internal/engine"
	"callguard/internal/models"
	"callguard/internal/scorer/geofit"
	"callguard/internal/scorer/kyc"
)

const maxBodyBytes = 16 << 20 // audio payloads arrive base64-encoded

// Transcriber converts call audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// Extractor pulls a structured claim out of a transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*models.CallerClaim, error)
}

// Handler holds the dependencies shared across all HTTP handlers. The cache,
// indexer, and alerts fields are optional; nil disables the concern.
type Handler struct {
	engine      *engine.Engine
	location    *geofit.Service
	identity    *kyc.Service
	transcriber Transcriber
	extractor   Extractor

	cache    *database.RedisClient
	cacheTTL time.Duration
	indexer  *audit.Indexer
	alerts   *alert.Publisher

	logger logger.Logger
}

type HandlerDeps struct {
	Engine      *engine.Engine
	Location    *geofit.Service
	Identity    *kyc.Service
	Transcriber Transcriber
	Extractor   Extractor
	Cache       *database.RedisClient
	CacheTTL    time.Duration
	Indexer     *audit.Indexer
	Alerts      *alert.Publisher
	Logger      logger.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		engine:      deps.Engine,
		location:    deps.Location,
		identity:    deps.Identity,
		transcriber: deps.Transcriber,
		extractor:   deps.Extractor,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		indexer:     deps.Indexer,
		alerts:      deps.Alerts,
		logger:      deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Score evaluates one call and returns the fraud verdict.
func (h *Handler) Score(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, "INVALID_BODY", "failed to read request body")
		return
	}
	if err := validateBody(scoreSchema, body); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	var req ScoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_JSON", "request body must be valid JSON")
		return
	}

	claim, err := h.resolveClaim(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsInvalidArgument(err) {
			writeError(c, err)
			return
		}
		// Transcription/extraction are best-effort: a failed collaborator
		// degrades to an empty claim and the engine's neutral scoring.
		h.logger.Warn("claim resolution failed, scoring with empty claim", map[string]interface{}{
			"callerPhone": req.CallerPhone,
			"error":       err.Error(),
		})
		claim = &models.CallerClaim{}
	}

	cacheKey := verdictCacheKey(req.CallerPhone, claim)
	if cached := h.cachedVerdict(c.Request.Context(), cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	verdict, err := h.engine.Evaluate(c.Request.Context(), req.CallerPhone, claim)
	if err != nil {
		writeError(c, err)
		return
	}

	h.storeVerdict(c.Request.Context(), cacheKey, verdict)
	if h.indexer != nil {
		h.indexer.IndexAsync(verdict)
	}
	if h.alerts != nil {
		h.alerts.PublishAsync(verdict)
	}

	c.JSON(http.StatusOK, verdict)
}

// resolveClaim turns whichever call representation the client sent into a
// structured claim: claim passthrough, transcript extraction, or full
// audio transcription plus extraction.
func (h *Handler) resolveClaim(ctx context.Context, req *ScoreRequest) (*models.CallerClaim, error) {
	switch {
	case req.Claim != nil:
		return req.Claim, nil
	case req.Transcript != "":
		return h.extractor.Extract(ctx, req.Transcript)
	case req.Audio != "":
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			return nil, apperrors.NewInvalidArgumentError("audio must be base64-encoded")
		}
		transcript, err := h.transcriber.Transcribe(ctx, audio, req.AudioFormat)
		if err != nil {
			return nil, err
		}
		return h.extractor.Extract(ctx, transcript)
	default:
		return &models.CallerClaim{}, nil
	}
}

func verdictCacheKey(phone string, claim *models.CallerClaim) string {
	raw, _ := json.Marshal(claim)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("verdict:%s:%s", phone, hex.EncodeToString(sum[:8]))
}

func (h *Handler) cachedVerdict(ctx context.Context, key string) *models.FraudVerdict {
	if h.cache == nil {
		return nil
	}
	raw, err := h.cache.Get(ctx, key)
	if err != nil {
		metrics.VerdictCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	var verdict models.FraudVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		metrics.VerdictCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.VerdictCacheHits.WithLabelValues("hit").Inc()
	return &verdict
}

func (h *Handler) storeVerdict(ctx context.Context, key string, verdict *models.FraudVerdict) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(verdict)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, raw, h.cacheTTL); err != nil {
		h.logger.Warn("verdict cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// VerifyLocation runs the coordinate-based location check on its own.
func (h *Handler) VerifyLocation(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, "INVALID_BODY", "failed to read request body")
		return
	}
	if err := validateBody(locationSchema, body); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	var req LocationVerifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_JSON", "request body must be valid JSON")
		return
	}

	sub, err := h.location.VerifyCoordinates(c.Request.Context(), geofit.CoordinateRequest{
		PhoneNumber: req.PhoneNumber,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Radius:      req.Radius,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// MatchKYC runs the detailed field-by-field identity comparison.
func (h *Handler) MatchKYC(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, "INVALID_BODY", "failed to read request body")
		return
	}
	if err := validateBody(kycSchema, body); err != nil {
		badRequest(c, "VALIDATION_ERROR", err.Error())
		return
	}

	var req KYCMatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_JSON", "request body must be valid JSON")
		return
	}

	report, err := h.identity.MatchFields(c.Request.Context(), req.PhoneNumber, &req.Claim)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "callguard",
	})
}
