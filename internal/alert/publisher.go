// internal/alert/publisher.go

// Package alert pushes CRITICAL verdicts to an SNS topic so downstream
// consumers (case management, on-call) hear about them immediately.
// Publishing is best effort and never blocks or fails an evaluation.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"callguard/internal/common/logger"
	"callguard/internal/models"
)

const publishTimeout = 5 * time.Second

// snsAPI is the slice of the SNS client the publisher needs; kept narrow so
// tests can stub it.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends verdict alerts to a single SNS topic.
type Publisher struct {
	client   snsAPI
	topicARN string
	logger   logger.Logger
}

// NewPublisher builds a Publisher backed by the default AWS credential chain.
func NewPublisher(ctx context.Context, region, topicARN string, log logger.Logger) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Publisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "alert"}),
	}, nil
}

// NewPublisherWithClient is the injection point for tests.
func NewPublisherWithClient(client snsAPI, topicARN string, log logger.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "alert"}),
	}
}

// alertMessage is the payload delivered to subscribers.
type alertMessage struct {
	EvaluationID     string           `json:"evaluation_id"`
	CallerPhone      string           `json:"caller_phone"`
	OverallScamScore int              `json:"overall_scam_score"`
	RiskLevel        models.RiskLevel `json:"risk_level"`
	RiskFactors      []string         `json:"risk_factors"`
	EvaluatedAt      time.Time        `json:"evaluated_at"`
}

// Publish sends one alert for the verdict. Only CRITICAL verdicts are
// published; anything else is a no-op.
func (p *Publisher) Publish(ctx context.Context, verdict *models.FraudVerdict) error {
	if verdict.RiskLevel != models.RiskCritical {
		return nil
	}

	body, err := json.Marshal(alertMessage{
		EvaluationID:     verdict.EvaluationID,
		CallerPhone:      verdict.CallerPhone,
		OverallScamScore: verdict.OverallScamScore,
		RiskLevel:        verdict.RiskLevel,
		RiskFactors:      verdict.RiskFactors,
		EvaluatedAt:      verdict.EvaluatedAt,
	})
	if err != nil {
		return err
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String("Critical fraud verdict"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"risk_level": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(verdict.RiskLevel)),
			},
		},
	})
	return err
}

// PublishAsync publishes on a background goroutine with its own timeout.
func (p *Publisher) PublishAsync(verdict *models.FraudVerdict) {
	if verdict.RiskLevel != models.RiskCritical {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, verdict); err != nil {
			p.logger.Warn("alert publish failed", map[string]interface{}{
				"evaluationId": verdict.EvaluationID,
				"error":        err.Error(),
			})
		}
	}()
}
