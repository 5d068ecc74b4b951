// internal/audit/indexer.go

// Package audit persists completed fraud verdicts to Elasticsearch for
// offline review. Indexing is fire-and-forget: a failed write is logged and
// dropped, never surfaced to the caller.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"callguard/internal/common/database"
	"callguard/internal/common/logger"
	"callguard/internal/models"
)

const indexTimeout = 5 * time.Second

// Indexer writes verdicts to a single Elasticsearch index keyed by
// evaluation ID.
type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "audit"}),
	}
}

// Index stores one verdict. Errors are returned for tests but callers are
// expected to invoke this through IndexAsync.
func (i *Indexer) Index(ctx context.Context, verdict *models.FraudVerdict) error {
	body, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("marshaling verdict %s: %w", verdict.EvaluationID, err)
	}

	res, err := i.es.Client.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Client.Index.WithContext(ctx),
		i.es.Client.Index.WithDocumentID(verdict.EvaluationID),
	)
	if err != nil {
		return fmt.Errorf("indexing verdict %s: %w", verdict.EvaluationID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing verdict %s: %s", verdict.EvaluationID, res.Status())
	}
	return nil
}

// IndexAsync indexes the verdict on a background goroutine with its own
// timeout, detached from the request context.
func (i *Indexer) IndexAsync(verdict *models.FraudVerdict) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := i.Index(ctx, verdict); err != nil {
			i.logger.Warn("verdict indexing failed", map[string]interface{}{
				"evaluationId": verdict.EvaluationID,
				"error":        err.Error(),
			})
		}
	}()
}
