package game

// Level buckets how close a card is to completion.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelNear     Level = "near"
	LevelCritical Level = "critical"
	LevelWin      Level = "win"
)

// Completion thresholds, in percent.
const (
	NearThreshold     = 75.0
	CriticalThreshold = 90.0
)

// Progress summarises a card's coverage.
type Progress struct {
	Total     int     `json:"total"`
	Marked    int     `json:"marked"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
	Level     Level   `json:"level"`
}

// EvaluateProgress computes coverage of a card with total numbers of which
// marked are covered. Marked is clamped to total.
func EvaluateProgress(total, marked int) Progress {
	p := Progress{Total: total, Marked: marked, Level: LevelNormal}
	if total <= 0 || marked < 0 {
		p.Remaining = max(0, total)
		return p
	}
	if marked > total {
		marked = total
	}
	p.Marked = marked
	p.Remaining = total - marked
	p.Percent = float64(marked) / float64(total) * 100

	switch {
	case marked == total:
		p.Level = LevelWin
	case p.Percent >= CriticalThreshold:
		p.Level = LevelCritical
	case p.Percent >= NearThreshold:
		p.Level = LevelNear
	}
	return p
}
