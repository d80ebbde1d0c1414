package models

import (
	"strings"

	"laine/internal/common"
)

const (
	DefaultTone               = "warm, professional, human"
	DefaultSchedulingPriority = "First availability"

	maxShortText = 255
	maxLongText  = 5000
)

// PracticeForm is the editable shape of a Practice shared by the onboarding
// wizard and the settings editor. Optional text is "" rather than nil.
type PracticeForm struct {
	// [1] Practice identity
	Name            string `json:"name"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	LocationContext string `json:"location_context"`
	Directions      string `json:"directions"`
	Doctors         string `json:"doctors"`
	Hygienists      string `json:"hygienists"`

	// [2] Office logistics & culture
	Tone                   string `json:"tone"`
	OffTopicResponse       string `json:"off_topic_response"`
	SeesKids               bool   `json:"sees_kids"`
	AcceptsWalkIns         string `json:"accepts_walk_ins"`
	VendorCallPolicy       string `json:"vendor_call_policy"`
	OffersSameDayTreatment bool   `json:"offers_same_day_treatment"`

	// [3] New patient scheduling flow
	NewPatientFlow                 string `json:"new_patient_flow"`
	NewPatientSpecialOffer         bool   `json:"new_patient_special_offer"`
	NewPatientSpecialDetails       string `json:"new_patient_special_details"`
	MentionSpecialOfferProactively bool   `json:"mention_special_offer_proactively"`

	// [4] Insurance participation
	InNetworkPPOs                  []string `json:"in_network_ppos"`
	DeltaDentalTier                string   `json:"delta_dental_tier"`
	DeltaDentalOutOfNetworkDetails string   `json:"delta_dental_out_of_network_details"`
	AcceptsMedicaid                bool     `json:"accepts_medicaid"`
	MedicaidStateName              string   `json:"medicaid_state_name"`
	MedicaidNotAcceptedPhrase      string   `json:"medicaid_not_accepted_phrase"`
	AcceptsHMODMO                  bool     `json:"accepts_hmo_dmo"`
	HMODMONotAcceptedPhrase        string   `json:"hmo_dmo_not_accepted_phrase"`
	DualInsuranceNotes             string   `json:"dual_insurance_notes"`
	InHouseSavingsPlanDetails      string   `json:"in_house_savings_plan_details"`

	// [5] Insurance handling details
	CollectInsuranceCompany   bool `json:"collect_insurance_company"`
	CollectSubscriberName     bool `json:"collect_subscriber_name"`
	CollectSubscriberDOB      bool `json:"collect_subscriber_dob"`
	CollectInsuranceID        bool `json:"collect_insurance_id"`
	CollectGroupID            bool `json:"collect_group_id"`
	CollectSubscriberEmployer bool `json:"collect_subscriber_employer"`
	ConfirmNameSpelling       bool `json:"confirm_name_spelling"`
	ValidateNumbers           bool `json:"validate_numbers"`

	// [6] Appointment types to offer
	OfferedAppointmentTypes []string `json:"offered_appointment_types"`

	// [7] Scheduling logistics
	SchedulingTimeframeLimit string `json:"scheduling_timeframe_limit"`
	SchedulingPriority       string `json:"scheduling_priority"`
	AppointmentOfferSequence string `json:"appointment_offer_sequence"`

	// [8] Additional prompts & edge cases
	PromptForFamilyScheduling     bool   `json:"prompt_for_family_scheduling"`
	HandleInsuranceNotOnFile      string `json:"handle_insurance_not_on_file"`
	HandleQuoteRequest            string `json:"handle_quote_request"`
	HandleGeneralQuestion         string `json:"handle_general_question"`
	HandleSpecificProviderRequest string `json:"handle_specific_provider_request"`
}

// NewDefaultPracticeForm returns the form a new practice starts from
func NewDefaultPracticeForm() *PracticeForm {
	return &PracticeForm{
		Tone:                      DefaultTone,
		InNetworkPPOs:             []string{},
		CollectInsuranceCompany:   true,
		CollectSubscriberName:     true,
		CollectSubscriberDOB:      true,
		CollectInsuranceID:        true,
		CollectGroupID:            true,
		CollectSubscriberEmployer: true,
		ConfirmNameSpelling:       true,
		ValidateNumbers:           true,
		OfferedAppointmentTypes:   []string{},
		SchedulingPriority:        DefaultSchedulingPriority,
	}
}

// PracticeFormFromRecord returns the form for editing an existing practice
func PracticeFormFromRecord(p *Practice) *PracticeForm {
	form := NewDefaultPracticeForm()
	if p == nil {
		return form
	}

	form.Name = p.Name
	form.Address = common.SafeString(p.Address)
	form.City = common.SafeString(p.City)
	form.State = common.SafeString(p.State)
	form.LocationContext = common.SafeString(p.LocationContext)
	form.Directions = common.SafeString(p.Directions)
	form.Doctors = BlobText(p.Doctors)
	form.Hygienists = BlobText(p.Hygienists)

	if p.Tone != "" {
		form.Tone = p.Tone
	}
	form.OffTopicResponse = common.SafeString(p.OffTopicResponse)
	form.SeesKids = p.SeesKids
	form.AcceptsWalkIns = common.SafeString(p.AcceptsWalkIns)
	form.VendorCallPolicy = common.SafeString(p.VendorCallPolicy)
	form.OffersSameDayTreatment = p.OffersSameDayTreatment

	form.NewPatientFlow = common.SafeString(p.NewPatientFlow)
	form.NewPatientSpecialOffer = p.NewPatientSpecialOffer
	form.NewPatientSpecialDetails = common.SafeString(p.NewPatientSpecialDetails)
	form.MentionSpecialOfferProactively = p.MentionSpecialOfferProactively

	form.InNetworkPPOs = nonNil(p.InNetworkPPOs)
	form.DeltaDentalTier = common.SafeString(p.DeltaDentalTier)
	form.DeltaDentalOutOfNetworkDetails = common.SafeString(p.DeltaDentalOutOfNetworkDetails)
	form.AcceptsMedicaid = p.AcceptsMedicaid
	form.MedicaidStateName = common.SafeString(p.MedicaidStateName)
	form.MedicaidNotAcceptedPhrase = common.SafeString(p.MedicaidNotAcceptedPhrase)
	form.AcceptsHMODMO = p.AcceptsHMODMO
	form.HMODMONotAcceptedPhrase = common.SafeString(p.HMODMONotAcceptedPhrase)
	form.DualInsuranceNotes = common.SafeString(p.DualInsuranceNotes)
	form.InHouseSavingsPlanDetails = common.SafeString(p.InHouseSavingsPlanDetails)

	form.CollectInsuranceCompany = p.CollectInsuranceCompany
	form.CollectSubscriberName = p.CollectSubscriberName
	form.CollectSubscriberDOB = p.CollectSubscriberDOB
	form.CollectInsuranceID = p.CollectInsuranceID
	form.CollectGroupID = p.CollectGroupID
	form.CollectSubscriberEmployer = p.CollectSubscriberEmployer
	form.ConfirmNameSpelling = p.ConfirmNameSpelling
	form.ValidateNumbers = p.ValidateNumbers

	form.OfferedAppointmentTypes = nonNil(p.OfferedAppointmentTypes)

	form.SchedulingTimeframeLimit = common.SafeString(p.SchedulingTimeframeLimit)
	if p.SchedulingPriority != "" {
		form.SchedulingPriority = p.SchedulingPriority
	}
	form.AppointmentOfferSequence = BlobText(p.AppointmentOfferSequence)

	form.PromptForFamilyScheduling = p.PromptForFamilyScheduling
	form.HandleInsuranceNotOnFile = common.SafeString(p.HandleInsuranceNotOnFile)
	form.HandleQuoteRequest = common.SafeString(p.HandleQuoteRequest)
	form.HandleGeneralQuestion = common.SafeString(p.HandleGeneralQuestion)
	form.HandleSpecificProviderRequest = common.SafeString(p.HandleSpecificProviderRequest)

	return form
}

// ToPractice converts the form into a full Practice record for the organization.
// Blank optional text becomes NULL. Identity and timestamps are left to the caller.
func (f *PracticeForm) ToPractice(orgID string) *Practice {
	return &Practice{
		ClerkOrganizationID: orgID,

		Name:            strings.TrimSpace(f.Name),
		Address:         common.NullableString(f.Address),
		City:            common.NullableString(f.City),
		State:           common.NullableString(f.State),
		LocationContext: common.NullableString(f.LocationContext),
		Directions:      common.NullableString(f.Directions),
		Doctors:         NewTextBlob(f.Doctors),
		Hygienists:      NewTextBlob(f.Hygienists),

		Tone:                   f.Tone,
		OffTopicResponse:       common.NullableString(f.OffTopicResponse),
		SeesKids:               f.SeesKids,
		AcceptsWalkIns:         common.NullableString(f.AcceptsWalkIns),
		VendorCallPolicy:       common.NullableString(f.VendorCallPolicy),
		OffersSameDayTreatment: f.OffersSameDayTreatment,

		NewPatientFlow:                 common.NullableString(f.NewPatientFlow),
		NewPatientSpecialOffer:         f.NewPatientSpecialOffer,
		NewPatientSpecialDetails:       common.NullableString(f.NewPatientSpecialDetails),
		MentionSpecialOfferProactively: f.MentionSpecialOfferProactively,

		InNetworkPPOs:                  nonNil(f.InNetworkPPOs),
		DeltaDentalTier:                common.NullableString(f.DeltaDentalTier),
		DeltaDentalOutOfNetworkDetails: common.NullableString(f.DeltaDentalOutOfNetworkDetails),
		AcceptsMedicaid:                f.AcceptsMedicaid,
		MedicaidStateName:              common.NullableString(f.MedicaidStateName),
		MedicaidNotAcceptedPhrase:      common.NullableString(f.MedicaidNotAcceptedPhrase),
		AcceptsHMODMO:                  f.AcceptsHMODMO,
		HMODMONotAcceptedPhrase:        common.NullableString(f.HMODMONotAcceptedPhrase),
		DualInsuranceNotes:             common.NullableString(f.DualInsuranceNotes),
		InHouseSavingsPlanDetails:      common.NullableString(f.InHouseSavingsPlanDetails),

		CollectInsuranceCompany:   f.CollectInsuranceCompany,
		CollectSubscriberName:     f.CollectSubscriberName,
		CollectSubscriberDOB:      f.CollectSubscriberDOB,
		CollectInsuranceID:        f.CollectInsuranceID,
		CollectGroupID:            f.CollectGroupID,
		CollectSubscriberEmployer: f.CollectSubscriberEmployer,
		ConfirmNameSpelling:       f.ConfirmNameSpelling,
		ValidateNumbers:           f.ValidateNumbers,

		OfferedAppointmentTypes: nonNil(f.OfferedAppointmentTypes),

		SchedulingTimeframeLimit: common.NullableString(f.SchedulingTimeframeLimit),
		SchedulingPriority:       f.SchedulingPriority,
		AppointmentOfferSequence: NewTextBlob(f.AppointmentOfferSequence),

		PromptForFamilyScheduling:     f.PromptForFamilyScheduling,
		HandleInsuranceNotOnFile:      common.NullableString(f.HandleInsuranceNotOnFile),
		HandleQuoteRequest:            common.NullableString(f.HandleQuoteRequest),
		HandleGeneralQuestion:         common.NullableString(f.HandleGeneralQuestion),
		HandleSpecificProviderRequest: common.NullableString(f.HandleSpecificProviderRequest),
	}
}

// Validate trims the form in place and checks required fields and lengths
func (f *PracticeForm) Validate() error {
	if err := common.ValidateRequiredString(f.Name, "name"); err != nil {
		return err
	}

	short := map[string]*string{
		"name":                &f.Name,
		"address":             &f.Address,
		"city":                &f.City,
		"state":               &f.State,
		"tone":                &f.Tone,
		"delta_dental_tier":   &f.DeltaDentalTier,
		"medicaid_state_name": &f.MedicaidStateName,
		"scheduling_priority": &f.SchedulingPriority,
	}
	for field, value := range short {
		if err := common.ValidateOptionalString(value, field, maxShortText); err != nil {
			return err
		}
	}

	long := map[string]*string{
		"location_context":                    &f.LocationContext,
		"directions":                          &f.Directions,
		"doctors":                             &f.Doctors,
		"hygienists":                          &f.Hygienists,
		"off_topic_response":                  &f.OffTopicResponse,
		"accepts_walk_ins":                    &f.AcceptsWalkIns,
		"vendor_call_policy":                  &f.VendorCallPolicy,
		"new_patient_flow":                    &f.NewPatientFlow,
		"new_patient_special_details":         &f.NewPatientSpecialDetails,
		"delta_dental_out_of_network_details": &f.DeltaDentalOutOfNetworkDetails,
		"medicaid_not_accepted_phrase":        &f.MedicaidNotAcceptedPhrase,
		"hmo_dmo_not_accepted_phrase":         &f.HMODMONotAcceptedPhrase,
		"dual_insurance_notes":                &f.DualInsuranceNotes,
		"in_house_savings_plan_details":       &f.InHouseSavingsPlanDetails,
		"scheduling_timeframe_limit":          &f.SchedulingTimeframeLimit,
		"appointment_offer_sequence":          &f.AppointmentOfferSequence,
		"handle_insurance_not_on_file":        &f.HandleInsuranceNotOnFile,
		"handle_quote_request":                &f.HandleQuoteRequest,
		"handle_general_question":             &f.HandleGeneralQuestion,
		"handle_specific_provider_request":    &f.HandleSpecificProviderRequest,
	}
	for field, value := range long {
		if err := common.ValidateOptionalString(value, field, maxLongText); err != nil {
			return err
		}
	}

	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
