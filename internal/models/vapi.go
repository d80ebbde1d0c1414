package models

const (
	VapiMessageEndOfCallReport = "end-of-call-report"
)

// VapiWebhookBody is the envelope the voice platform posts for every event.
// Only the fields used for metering are decoded.
type VapiWebhookBody struct {
	Message *VapiMessage `json:"message"`
}

type VapiMessage struct {
	Type string    `json:"type"`
	Call *VapiCall `json:"call"`

	// Some report variants put the timestamps on the message instead of the call
	StartedAt *string `json:"startedAt"`
	EndedAt   *string `json:"endedAt"`
}

type VapiCall struct {
	ID          string         `json:"id"`
	AssistantID string         `json:"assistantId"`
	StartedAt   *string        `json:"startedAt"`
	EndedAt     *string        `json:"endedAt"`
	Metadata    map[string]any `json:"metadata"`
}

// CallTimes returns the call start and end, preferring the call object
func (m *VapiMessage) CallTimes() (startedAt, endedAt string) {
	if m.Call != nil {
		if m.Call.StartedAt != nil {
			startedAt = *m.Call.StartedAt
		}
		if m.Call.EndedAt != nil {
			endedAt = *m.Call.EndedAt
		}
	}
	if startedAt == "" && m.StartedAt != nil {
		startedAt = *m.StartedAt
	}
	if endedAt == "" && m.EndedAt != nil {
		endedAt = *m.EndedAt
	}
	return startedAt, endedAt
}

// IngestOutcome classifies what happened to a single webhook message
type IngestOutcome string

const (
	OutcomeIgnored             IngestOutcome = "ignored"
	OutcomeUnmappedAssistant   IngestOutcome = "unmapped_assistant"
	OutcomeMissingTimestamps   IngestOutcome = "missing_timestamps"
	OutcomeInvalidTimestamps   IngestOutcome = "invalid_timestamps"
	OutcomeNonPositiveDuration IngestOutcome = "non_positive_duration"
	OutcomeTrackFailed         IngestOutcome = "track_failed"
	OutcomeTracked             IngestOutcome = "tracked"
)

// IngestResult is returned by the usage ingester for logging and tests
type IngestResult struct {
	Outcome         IngestOutcome `json:"outcome"`
	CallID          string        `json:"call_id,omitempty"`
	AssistantID     string        `json:"assistant_id,omitempty"`
	OrganizationID  string        `json:"organization_id,omitempty"`
	DurationSeconds int64         `json:"duration_seconds,omitempty"`
	Minutes         int64         `json:"minutes,omitempty"`
}
