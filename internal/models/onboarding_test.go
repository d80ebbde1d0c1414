package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingSteps(t *testing.T) {
	require.Len(t, OnboardingSteps, 8)
	for i, step := range OnboardingSteps {
		assert.Equal(t, i+1, step.Number)
		assert.NotEmpty(t, step.Title)
		assert.NotEmpty(t, step.Description)
	}
	assert.Equal(t, "Practice Identity", OnboardingSteps[0].Title)
	assert.Equal(t, "Additional Prompts & Edge Cases", OnboardingSteps[7].Title)
}

func TestOnboardingWizard_NameGatesStepOne(t *testing.T) {
	w := NewOnboardingWizard()
	assert.Equal(t, 1, w.CurrentStep)
	assert.False(t, w.CanAdvance())
	assert.False(t, w.Next())
	assert.Equal(t, 1, w.CurrentStep)

	w.Form.Name = "   "
	assert.False(t, w.CanAdvance())

	w.Form.Name = "Acme Dental"
	assert.True(t, w.Next())
	assert.Equal(t, 2, w.CurrentStep)
}

func TestOnboardingWizard_Bounds(t *testing.T) {
	w := NewOnboardingWizard()
	w.Form.Name = "Acme Dental"

	assert.False(t, w.Back())
	assert.Equal(t, 1, w.CurrentStep)

	for i := 0; i < 20; i++ {
		w.Next()
	}
	assert.Equal(t, 8, w.CurrentStep)
	assert.True(t, w.IsFinalStep())
	assert.Equal(t, 100, w.Progress())
	assert.False(t, w.Next())

	assert.True(t, w.Back())
	assert.Equal(t, 7, w.CurrentStep)
	assert.Equal(t, "Scheduling Logistics", w.Step().Title)

	w.GoTo(0)
	assert.Equal(t, 1, w.CurrentStep)
	w.GoTo(42)
	assert.Equal(t, 8, w.CurrentStep)
	w.GoTo(4)
	assert.Equal(t, 50, w.Progress())
}

func TestNewSettingsWizard(t *testing.T) {
	w := NewSettingsWizard(&Practice{Name: "Acme Dental", Tone: "calm"})
	assert.Equal(t, 1, w.CurrentStep)
	assert.Equal(t, "Acme Dental", w.Form.Name)
	assert.Equal(t, "calm", w.Form.Tone)
	assert.True(t, w.CanAdvance())
}
