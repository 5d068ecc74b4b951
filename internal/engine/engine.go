// internal/engine/engine.go

// Package engine aggregates the three verification components into a single
// fraud verdict. The components run concurrently with independent timeouts;
// a failing component degrades into its documented fallback score instead of
// aborting the evaluation.
package engine

import (
	"context"
	goerrors "errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "callguard/internal/common/errors"
	"callguard/internal/common/logger"
	"callguard/internal/common/metrics"
	"callguard/internal/common/observability"
	"callguard/internal/models"
	"callguard/internal/refdata"
	"callguard/internal/scorer/affiliation"
	"callguard/internal/scorer/geofit"
	"callguard/internal/scorer/kyc"
)

// Engine runs one stateless evaluation per call. Safe for concurrent use.
type Engine struct {
	cfg      *Config
	location *geofit.Service
	company  *affiliation.Service
	identity *kyc.Service
	simSwaps refdata.SimSwapSource
	obs      *observability.Observability
	logger   logger.Logger

	now func() time.Time
}

func New(cfg *Config, location *geofit.Service, company *affiliation.Service, identity *kyc.Service, simSwaps refdata.SimSwapSource, obs *observability.Observability, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		location: location,
		company:  company,
		identity: identity,
		simSwaps: simSwaps,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "engine"}),
		now:      time.Now,
	}, nil
}

// componentOutcome is one scorer's contribution after fallback substitution.
type componentOutcome struct {
	sub    *models.SubScore
	failed bool
}

// runScorer executes one component under its own timeout and converts any
// error into the component's fallback score plus an explanatory risk factor.
func (e *Engine) runScorer(ctx context.Context, component string, fallback int, fn func(context.Context) (*models.SubScore, error)) componentOutcome {
	scorerCtx, cancel := context.WithTimeout(ctx, e.cfg.ScorerTimeout)
	defer cancel()
	if e.obs != nil {
		spanCtx, span := e.obs.StartSpan(scorerCtx, "engine.scorer."+component)
		defer span.End()
		scorerCtx = spanCtx
	}

	start := e.now()
	type result struct {
		sub *models.SubScore
		err error
	}
	done := make(chan result, 1)
	go func() {
		sub, err := fn(scorerCtx)
		done <- result{sub, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-scorerCtx.Done():
		res = result{nil, apperrors.NewCollaboratorTimeoutError(component)}
	}
	metrics.ScorerDuration.WithLabelValues(component).Observe(e.now().Sub(start).Seconds())

	if res.err != nil {
		metrics.ScorerFailures.WithLabelValues(component, errorCode(res.err)).Inc()
		e.logger.Warn("scorer failed, using fallback score", map[string]interface{}{
			"scorer":   component,
			"fallback": fallback,
			"error":    res.err.Error(),
		})
		return componentOutcome{
			sub: &models.SubScore{
				Score:       fallback,
				RiskFactors: []string{fmt.Sprintf("%s verification failed: %v", component, res.err)},
			},
			failed: true,
		}
	}
	return componentOutcome{sub: res.sub}
}

func errorCode(err error) string {
	var se *apperrors.StandardError
	if goerrors.As(err, &se) {
		return string(se.Code)
	}
	return "UNKNOWN"
}

// Evaluate produces the fraud verdict for one call. It never fails on
// component errors; only an invalid phone number is rejected outright.
func (e *Engine) Evaluate(ctx context.Context, callerPhone string, claim *models.CallerClaim) (*models.FraudVerdict, error) {
	if callerPhone == "" {
		return nil, apperrors.NewInvalidPhoneError("caller phone is required")
	}
	if claim == nil {
		claim = &models.CallerClaim{}
	}

	start := e.now()
	if e.obs != nil {
		spanCtx, span := e.obs.StartSpan(ctx, "engine.Evaluate")
		defer span.End()
		ctx = spanCtx
	}

	claimedCity := claim.Locality
	claimedCountry := claim.Country

	var locationOut, companyOut, kycOut componentOutcome
	doneCh := make(chan struct{})
	go func() {
		locationOut = e.runScorer(ctx, "location", fallbackLocationScore, func(scorerCtx context.Context) (*models.SubScore, error) {
			if claimedCity == "" {
				return &models.SubScore{
					Score:       fallbackLocationScore,
					RiskFactors: []string{"No location provided"},
				}, nil
			}
			return e.location.VerifyCity(scorerCtx, callerPhone, claimedCity, claimedCountry)
		})
		doneCh <- struct{}{}
	}()
	go func() {
		companyOut = e.runScorer(ctx, "company", fallbackCompanyScore, func(context.Context) (*models.SubScore, error) {
			return e.company.Verify(callerPhone, claim.Name, claim.CompanyName), nil
		})
		doneCh <- struct{}{}
	}()
	go func() {
		kycOut = e.runScorer(ctx, "kyc", fallbackKYCScore, func(scorerCtx context.Context) (*models.SubScore, error) {
			return e.identity.Verify(scorerCtx, callerPhone, claim.Name, claim.Address)
		})
		doneCh <- struct{}{}
	}()
	for i := 0; i < 3; i++ {
		<-doneCh
	}

	components := models.ComponentScores{
		Location: locationOut.sub.Score,
		Company:  companyOut.sub.Score,
		KYC:      kycOut.sub.Score,
	}

	overall := e.combine(components, locationOut.failed && companyOut.failed && kycOut.failed)
	level := models.RiskLevelFor(overall)

	// Risk factors keep a fixed component order so audit output is stable.
	var factors []string
	factors = append(factors, locationOut.sub.RiskFactors...)
	factors = append(factors, companyOut.sub.RiskFactors...)
	factors = append(factors, kycOut.sub.RiskFactors...)

	results := map[string]interface{}{
		"location": locationOut.sub.Detail,
		"company":  companyOut.sub.Detail,
		"kyc":      kycOut.sub.Detail,
	}

	// SIM swap is advisory: it annotates the verdict but never moves the
	// weighted score.
	if e.cfg.SimSwapEnabled && e.simSwaps != nil {
		if factor, detail := e.checkSimSwap(ctx, callerPhone); detail != nil {
			results["sim_swap"] = detail
			if factor != "" {
				factors = append(factors, factor)
			}
		}
	}

	verdict := &models.FraudVerdict{
		EvaluationID:        uuid.NewString(),
		OverallScamScore:    overall,
		RiskLevel:           level,
		ComponentScores:     components,
		ScoringWeights:      e.cfg.Weights,
		RiskFactors:         factors,
		VerificationResults: results,
		CallerPhone:         callerPhone,
		ExtractedData:       *claim,
		EvaluatedAt:         e.now().UTC(),
	}

	duration := e.now().Sub(start)
	metrics.EvaluationsTotal.WithLabelValues(string(level)).Inc()
	metrics.EvaluationDuration.WithLabelValues("completed").Observe(duration.Seconds())
	if e.obs != nil {
		e.obs.RecordEvaluation(ctx, string(level))
		e.obs.RecordEvaluationDuration(ctx, duration, string(level))
	}

	e.logger.Info("evaluation completed", map[string]interface{}{
		"evaluationId": verdict.EvaluationID,
		"overallScore": overall,
		"riskLevel":    level,
		"components":   components,
	})

	return verdict, nil
}

// combine applies the configured weights and clamps the result.
func (e *Engine) combine(c models.ComponentScores, allFailed bool) int {
	if allFailed {
		return allFailedScore
	}
	w := e.cfg.Weights
	weighted := float64(c.Location)*w.Location +
		float64(c.Company)*w.Company +
		float64(c.KYC)*w.KYC
	if sum := w.Sum(); sum > 0 {
		weighted /= sum
	}
	return models.ClampScore(int(math.Round(weighted)))
}

// checkSimSwap reports whether the SIM changed inside the configured window.
func (e *Engine) checkSimSwap(ctx context.Context, callerPhone string) (string, map[string]interface{}) {
	rec, err := e.simSwaps.LatestSimChange(ctx, callerPhone)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			e.logger.Warn("sim swap lookup failed", map[string]interface{}{"error": err.Error()})
		}
		return "", nil
	}

	swapped := rec.SwappedWithin(e.cfg.SimSwapWindow, e.now())
	detail := map[string]interface{}{
		"latest_sim_change": rec.LatestSimChange,
		"swapped_recently":  swapped,
	}
	if !swapped {
		return "", detail
	}
	hours := int(e.cfg.SimSwapWindow.Hours())
	return fmt.Sprintf("SIM changed within the last %d hours", hours), detail
}
