package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStepsReturnsCopy(t *testing.T) {
	in := []RoutineStep{
		{Name: "Cleanse"},
		{Name: "Retinol", Frequency: "weekly"},
	}
	out := NormalizeSteps(in)

	assert.Equal(t, DefaultStepFrequency, out[0].Frequency)
	assert.Equal(t, "weekly", out[1].Frequency)
	assert.Empty(t, in[0].Frequency)
}
