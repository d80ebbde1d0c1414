package models

import "strings"

// OnboardingStep is one page of the practice setup wizard
type OnboardingStep struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OnboardingSteps is the fixed step list shared by onboarding and settings
var OnboardingSteps = []OnboardingStep{
	{Number: 1, Title: "Practice Identity", Description: "Basic practice information"},
	{Number: 2, Title: "Office Logistics & Culture", Description: "Tone and policies"},
	{Number: 3, Title: "New Patient Scheduling Flow", Description: "Patient onboarding process"},
	{Number: 4, Title: "Insurance Participation", Description: "Insurance networks and policies"},
	{Number: 5, Title: "Insurance Handling", Description: "Data collection preferences"},
	{Number: 6, Title: "Appointment Types to Offer", Description: "Available services"},
	{Number: 7, Title: "Scheduling Logistics", Description: "Appointment scheduling rules"},
	{Number: 8, Title: "Additional Prompts & Edge Cases", Description: "Special handling scenarios"},
}

// OnboardingWizard tracks the current step over a PracticeForm.
// CurrentStep always stays within 1..len(OnboardingSteps).
type OnboardingWizard struct {
	CurrentStep int           `json:"current_step"`
	Form        *PracticeForm `json:"form"`
}

// NewOnboardingWizard starts a wizard on step 1 with default form values
func NewOnboardingWizard() *OnboardingWizard {
	return &OnboardingWizard{CurrentStep: 1, Form: NewDefaultPracticeForm()}
}

// NewSettingsWizard starts a wizard on step 1 seeded from an existing practice
func NewSettingsWizard(p *Practice) *OnboardingWizard {
	return &OnboardingWizard{CurrentStep: 1, Form: PracticeFormFromRecord(p)}
}

// TotalSteps returns the number of wizard steps
func (w *OnboardingWizard) TotalSteps() int {
	return len(OnboardingSteps)
}

// Step returns the descriptor of the current step
func (w *OnboardingWizard) Step() OnboardingStep {
	return OnboardingSteps[w.CurrentStep-1]
}

// Next advances one step. It is a no-op on the final step or when the
// current step cannot be left yet.
func (w *OnboardingWizard) Next() bool {
	if w.IsFinalStep() || !w.CanAdvance() {
		return false
	}
	w.CurrentStep++
	return true
}

// Back moves one step back. It is a no-op on step 1.
func (w *OnboardingWizard) Back() bool {
	if w.CurrentStep <= 1 {
		return false
	}
	w.CurrentStep--
	return true
}

// GoTo jumps to a step, clamping out of range values
func (w *OnboardingWizard) GoTo(step int) {
	switch {
	case step < 1:
		w.CurrentStep = 1
	case step > w.TotalSteps():
		w.CurrentStep = w.TotalSteps()
	default:
		w.CurrentStep = step
	}
}

// CanAdvance reports whether the current step has what it needs.
// Only step 1 has a requirement: the practice name.
func (w *OnboardingWizard) CanAdvance() bool {
	if w.CurrentStep == 1 {
		return w.Form != nil && strings.TrimSpace(w.Form.Name) != ""
	}
	return true
}

// IsFinalStep reports whether submit is the only way forward
func (w *OnboardingWizard) IsFinalStep() bool {
	return w.CurrentStep == w.TotalSteps()
}

// Progress returns completion as a whole percentage of steps reached
func (w *OnboardingWizard) Progress() int {
	return w.CurrentStep * 100 / w.TotalSteps()
}
