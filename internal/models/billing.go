package models

import (
	"encoding/json"
	"math"
	"time"
)

const (
	ProductStatusActive   = "active"
	ProductStatusTrialing = "trialing"

	UsageLevelOK       = "ok"
	UsageLevelWarning  = "warning"
	UsageLevelCritical = "critical"
)

// BillingCustomer is the billing provider's view of an organization
type BillingCustomer struct {
	ID       string                    `json:"id"`
	Name     *string                   `json:"name"`
	Email    *string                   `json:"email"`
	Products []BillingCustomerProduct  `json:"products"`
	Features map[string]BillingFeature `json:"features"`
}

type BillingCustomerProduct struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Group  string `json:"group,omitempty"`
}

// IsActive reports whether the product currently entitles the customer
func (p BillingCustomerProduct) IsActive() bool {
	return p.Status == ProductStatusActive || p.Status == ProductStatusTrialing
}

// BillingFeature is a metered entitlement. NextResetAt is epoch milliseconds.
type BillingFeature struct {
	ID            string  `json:"id"`
	Unlimited     bool    `json:"unlimited"`
	IncludedUsage *int64  `json:"included_usage"`
	Usage         *int64  `json:"usage"`
	Balance       *int64  `json:"balance"`
	NextResetAt   *int64  `json:"next_reset_at"`
	Interval      *string `json:"interval"`
}

// BillingProduct is a catalog entry
type BillingProduct struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Group string            `json:"group,omitempty"`
	Items []json.RawMessage `json:"items,omitempty"`
}

// MinutesUsage is the dashboard view of the minutes feature
type MinutesUsage struct {
	Unlimited      bool       `json:"unlimited"`
	Included       int64      `json:"included"`
	Used           int64      `json:"used"`
	Balance        int64      `json:"balance"`
	PercentageUsed int        `json:"percentage_used"`
	Level          string     `json:"level"`
	NextResetAt    *time.Time `json:"next_reset_at,omitempty"`
}

// BillingSummary is what the billing page renders
type BillingSummary struct {
	CustomerID            string                   `json:"customer_id"`
	ActiveProducts        []BillingCustomerProduct `json:"active_products"`
	HasActiveSubscription bool                     `json:"has_active_subscription"`
	Minutes               *MinutesUsage            `json:"minutes"`
}

// NewMinutesUsage derives the dashboard numbers from a feature
func NewMinutesUsage(f BillingFeature) *MinutesUsage {
	u := &MinutesUsage{
		Unlimited: f.Unlimited,
		Used:      derefInt64(f.Usage),
	}
	if !f.Unlimited {
		u.Included = derefInt64(f.IncludedUsage)
		u.Balance = derefInt64(f.Balance)
	}
	u.PercentageUsed = PercentageUsed(u.Used, u.Included, u.Unlimited)
	u.Level = UsageLevel(u.PercentageUsed)
	if f.NextResetAt != nil && *f.NextResetAt > 0 {
		t := time.UnixMilli(*f.NextResetAt).UTC()
		u.NextResetAt = &t
	}
	return u
}

// PercentageUsed returns round(used/included*100), or 0 when nothing is included
func PercentageUsed(used, included int64, unlimited bool) int {
	if unlimited || included <= 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(included) * 100))
}

// UsageLevel buckets a percentage for display
func UsageLevel(percentage int) string {
	switch {
	case percentage > 85:
		return UsageLevelCritical
	case percentage > 60:
		return UsageLevelWarning
	default:
		return UsageLevelOK
	}
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
