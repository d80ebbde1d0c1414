package services

import (
	"context"
	"errors"
	"math"
	"time"

	"laine/internal/metrics"
	"laine/internal/models"

	"go.uber.org/zap"
)

// UsageService turns voice platform call reports into billed minutes
type UsageService interface {
	IngestMessage(ctx context.Context, msg *models.VapiMessage) models.IngestResult
}

type usageService struct {
	resolver  TenantResolver
	billing   BillingProvider
	featureID string
	log       *zap.Logger
}

func NewUsageService(resolver TenantResolver, billing BillingProvider, featureID string, log *zap.Logger) UsageService {
	return &usageService{
		resolver:  resolver,
		billing:   billing,
		featureID: featureID,
		log:       log,
	}
}

// BillableMinutes rounds the call length to whole seconds and bills every
// started minute. Zero or negative durations bill nothing.
func BillableMinutes(startedAt, endedAt time.Time) (seconds, minutes int64) {
	seconds = int64(math.Round(endedAt.Sub(startedAt).Seconds()))
	if seconds <= 0 {
		return seconds, 0
	}
	return seconds, (seconds + 59) / 60
}

// IngestMessage never returns an error. Failures are reported in the result,
// logged and counted; the webhook caller always acknowledges.
func (s *usageService) IngestMessage(ctx context.Context, msg *models.VapiMessage) models.IngestResult {
	if msg == nil || msg.Type != models.VapiMessageEndOfCallReport {
		msgType := ""
		if msg != nil {
			msgType = msg.Type
		}
		s.log.Info("webhook message not billable", zap.String("type", msgType))
		return s.finish(models.IngestResult{Outcome: models.OutcomeIgnored})
	}

	result := models.IngestResult{}
	if msg.Call != nil {
		result.CallID = msg.Call.ID
		result.AssistantID = msg.Call.AssistantID
	}
	log := s.log.With(zap.String("call_id", result.CallID), zap.String("assistant_id", result.AssistantID))
	log.Info("processing end-of-call report")

	orgID, err := s.resolver.ResolveTenant(ctx, result.AssistantID)
	if err != nil {
		if errors.Is(err, ErrAssistantNotMapped) {
			log.Error("no organization for assistant, usage not tracked")
		} else {
			log.Error("tenant lookup failed, usage not tracked", zap.Error(err))
		}
		result.Outcome = models.OutcomeUnmappedAssistant
		return s.finish(result)
	}
	result.OrganizationID = orgID
	log = log.With(zap.String("organization_id", orgID))

	startedRaw, endedRaw := msg.CallTimes()
	if startedRaw == "" || endedRaw == "" {
		log.Warn("call missing start or end time, cannot calculate duration")
		result.Outcome = models.OutcomeMissingTimestamps
		return s.finish(result)
	}

	startedAt, errStart := time.Parse(time.RFC3339, startedRaw)
	endedAt, errEnd := time.Parse(time.RFC3339, endedRaw)
	if errStart != nil || errEnd != nil {
		log.Warn("call timestamps are not valid RFC3339, usage not tracked",
			zap.String("started_at", startedRaw),
			zap.String("ended_at", endedRaw))
		result.Outcome = models.OutcomeInvalidTimestamps
		return s.finish(result)
	}

	result.DurationSeconds, result.Minutes = BillableMinutes(startedAt, endedAt)
	if result.Minutes <= 0 {
		log.Info("call duration was zero or negative, no usage tracked",
			zap.Int64("duration_seconds", result.DurationSeconds))
		result.Outcome = models.OutcomeNonPositiveDuration
		return s.finish(result)
	}

	log = log.With(zap.Int64("duration_seconds", result.DurationSeconds), zap.Int64("minutes", result.Minutes))
	log.Info("tracking call usage")

	_, err = s.billing.TrackUsage(ctx, TrackRequest{
		CustomerID: orgID,
		FeatureID:  s.featureID,
		Value:      result.Minutes,
		EventID:    result.CallID,
	})
	if err != nil {
		log.Error("failed to track usage", zap.Error(err))
		result.Outcome = models.OutcomeTrackFailed
		return s.finish(result)
	}

	log.Info("usage tracked")
	metrics.RecordMinutesTracked(result.Minutes)
	result.Outcome = models.OutcomeTracked
	return s.finish(result)
}

func (s *usageService) finish(result models.IngestResult) models.IngestResult {
	metrics.RecordUsageOutcome(string(result.Outcome))
	return result
}
