package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	for _, skin := range []string{"combination", "oily", "dry", "sensitive", "normal"} {
		assert.NotEmpty(t, c.For(skin), skin)
	}
	assert.Equal(t, c.For("combination"), c.For(""))
	assert.Equal(t, c.For("combination"), c.For("martian"))
	assert.Equal(t, c.For("oily"), c.For(" Oily "))
}

func TestFind(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	s, ok := c.Find("hydrating morning routine")
	require.True(t, ok)
	assert.Equal(t, "Hydrating Morning Routine", s.Name)
	assert.NotEmpty(t, s.Steps)

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestParseRejectsUnknownDefault(t *testing.T) {
	_, err := Parse([]byte("default: oily\nskin_types:\n  dry:\n    - name: x\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("default: dry\n"))
	assert.Error(t, err)
}
