package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateProgress(t *testing.T) {
	tests := []struct {
		total, marked int
		level         Level
		remaining     int
	}{
		{20, 0, LevelNormal, 20},
		{20, 14, LevelNormal, 6},
		{20, 15, LevelNear, 5},
		{20, 18, LevelCritical, 2},
		{20, 19, LevelCritical, 1},
		{20, 20, LevelWin, 0},
		{20, 25, LevelWin, 0},
		{10, 9, LevelCritical, 1},
		{0, 0, LevelNormal, 0},
		{10, -1, LevelNormal, 10},
	}
	for _, tt := range tests {
		p := EvaluateProgress(tt.total, tt.marked)
		assert.Equal(t, tt.level, p.Level, "total=%d marked=%d", tt.total, tt.marked)
		assert.Equal(t, tt.remaining, p.Remaining, "total=%d marked=%d", tt.total, tt.marked)
	}

	assert.InDelta(t, 50.0, EvaluateProgress(10, 5).Percent, 0.001)
}
