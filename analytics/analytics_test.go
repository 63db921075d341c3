package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	cases := []struct {
		index float64
		want  Level
	}{
		{0, LevelLow},
		{20, LevelLow},
		{20.1, LevelMedium},
		{40, LevelMedium},
		{40.1, LevelHigh},
		{70, LevelHigh},
		{70.1, LevelCritical},
		{100, LevelCritical},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, levelOf(c.index), "index=%.1f", c.index)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "low", LevelLow.String())
	assert.Equal(t, "medium", LevelMedium.String())
	assert.Equal(t, "high", LevelHigh.String())
	assert.Equal(t, "critical", LevelCritical.String())
}
