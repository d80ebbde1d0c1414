package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TextBlob is free text stored as a JSONB {"text": ...} document
type TextBlob struct {
	Text string `json:"text"`
}

// NewTextBlob returns nil for blank input so the column is stored as NULL
func NewTextBlob(text string) *TextBlob {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &TextBlob{Text: text}
}

// BlobText returns the text of a possibly nil blob
func BlobText(b *TextBlob) string {
	if b == nil {
		return ""
	}
	return b.Text
}

// Practice is the per-organization configuration of the voice assistant.
// There is at most one Practice per ClerkOrganizationID.
type Practice struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	ClerkOrganizationID string    `json:"clerk_organization_id" db:"clerk_organization_id"`

	// Practice identity
	Name            string    `json:"name" db:"name"`
	Address         *string   `json:"address" db:"address"`
	City            *string   `json:"city" db:"city"`
	State           *string   `json:"state" db:"state"`
	LocationContext *string   `json:"location_context" db:"location_context"`
	Directions      *string   `json:"directions" db:"directions"`
	Doctors         *TextBlob `json:"doctors" db:"doctors"`
	Hygienists      *TextBlob `json:"hygienists" db:"hygienists"`

	// Office logistics & culture
	Tone                   string  `json:"tone" db:"tone"`
	OffTopicResponse       *string `json:"off_topic_response" db:"off_topic_response"`
	SeesKids               bool    `json:"sees_kids" db:"sees_kids"`
	AcceptsWalkIns         *string `json:"accepts_walk_ins" db:"accepts_walk_ins"`
	VendorCallPolicy       *string `json:"vendor_call_policy" db:"vendor_call_policy"`
	OffersSameDayTreatment bool    `json:"offers_same_day_treatment" db:"offers_same_day_treatment"`

	// New patient scheduling flow
	NewPatientFlow                 *string `json:"new_patient_flow" db:"new_patient_flow"`
	NewPatientSpecialOffer         bool    `json:"new_patient_special_offer" db:"new_patient_special_offer"`
	NewPatientSpecialDetails       *string `json:"new_patient_special_details" db:"new_patient_special_details"`
	MentionSpecialOfferProactively bool    `json:"mention_special_offer_proactively" db:"mention_special_offer_proactively"`

	// Insurance participation
	InNetworkPPOs                  []string `json:"in_network_ppos" db:"in_network_ppos"`
	DeltaDentalTier                *string  `json:"delta_dental_tier" db:"delta_dental_tier"`
	DeltaDentalOutOfNetworkDetails *string  `json:"delta_dental_out_of_network_details" db:"delta_dental_out_of_network_details"`
	AcceptsMedicaid                bool     `json:"accepts_medicaid" db:"accepts_medicaid"`
	MedicaidStateName              *string  `json:"medicaid_state_name" db:"medicaid_state_name"`
	MedicaidNotAcceptedPhrase      *string  `json:"medicaid_not_accepted_phrase" db:"medicaid_not_accepted_phrase"`
	AcceptsHMODMO                  bool     `json:"accepts_hmo_dmo" db:"accepts_hmo_dmo"`
	HMODMONotAcceptedPhrase        *string  `json:"hmo_dmo_not_accepted_phrase" db:"hmo_dmo_not_accepted_phrase"`
	DualInsuranceNotes             *string  `json:"dual_insurance_notes" db:"dual_insurance_notes"`
	InHouseSavingsPlanDetails      *string  `json:"in_house_savings_plan_details" db:"in_house_savings_plan_details"`

	// Insurance handling details
	CollectInsuranceCompany   bool `json:"collect_insurance_company" db:"collect_insurance_company"`
	CollectSubscriberName     bool `json:"collect_subscriber_name" db:"collect_subscriber_name"`
	CollectSubscriberDOB      bool `json:"collect_subscriber_dob" db:"collect_subscriber_dob"`
	CollectInsuranceID        bool `json:"collect_insurance_id" db:"collect_insurance_id"`
	CollectGroupID            bool `json:"collect_group_id" db:"collect_group_id"`
	CollectSubscriberEmployer bool `json:"collect_subscriber_employer" db:"collect_subscriber_employer"`
	ConfirmNameSpelling       bool `json:"confirm_name_spelling" db:"confirm_name_spelling"`
	ValidateNumbers           bool `json:"validate_numbers" db:"validate_numbers"`

	// Appointment types to offer
	OfferedAppointmentTypes []string `json:"offered_appointment_types" db:"offered_appointment_types"`

	// Scheduling logistics
	SchedulingTimeframeLimit *string   `json:"scheduling_timeframe_limit" db:"scheduling_timeframe_limit"`
	SchedulingPriority       string    `json:"scheduling_priority" db:"scheduling_priority"`
	AppointmentOfferSequence *TextBlob `json:"appointment_offer_sequence" db:"appointment_offer_sequence"`

	// Additional prompts & edge cases
	PromptForFamilyScheduling     bool    `json:"prompt_for_family_scheduling" db:"prompt_for_family_scheduling"`
	HandleInsuranceNotOnFile      *string `json:"handle_insurance_not_on_file" db:"handle_insurance_not_on_file"`
	HandleQuoteRequest            *string `json:"handle_quote_request" db:"handle_quote_request"`
	HandleGeneralQuestion         *string `json:"handle_general_question" db:"handle_general_question"`
	HandleSpecificProviderRequest *string `json:"handle_specific_provider_request" db:"handle_specific_provider_request"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
