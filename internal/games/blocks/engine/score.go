package engine

import "math"

const floorEpsilon = 1e-9

// ScoreRules holds the scoring constants.
type ScoreRules struct {
	PointsPerCell int     // Base points for each cleared cell
	AreaBonus     float64 // Multiplier when more than one line clears at once
	ComboStep     float64 // Added to the multiplier per combo level
}

// DefaultScoreRules returns the standard scoring constants.
func DefaultScoreRules() ScoreRules {
	return ScoreRules{
		PointsPerCell: 10,
		AreaBonus:     1.5,
		ComboStep:     0.1,
	}
}

// ScoreTracker converts clear results into points and tracks the combo streak.
type ScoreTracker struct {
	rules ScoreRules
	score int
	combo int

	maxCombo     int
	linesCleared int
}

// NewScoreTracker creates a tracker with the given rules.
func NewScoreTracker(rules ScoreRules) *ScoreTracker {
	return &ScoreTracker{rules: rules}
}

// Score returns the cumulative score.
func (t *ScoreTracker) Score() int { return t.score }

// Combo returns the current streak of consecutive clearing placements.
func (t *ScoreTracker) Combo() int { return t.combo }

// MaxCombo returns the longest streak seen since the last Reset.
func (t *ScoreTracker) MaxCombo() int { return t.maxCombo }

// LinesCleared returns the rows plus columns cleared since the last Reset.
func (t *ScoreTracker) LinesCleared() int { return t.linesCleared }

// Points computes the score for a clear without changing any state.
// The combo bonus uses the streak before this clear.
func (t *ScoreTracker) Points(r ClearResult) int {
	base := float64(r.CellsCleared * t.rules.PointsPerCell)

	area := 1.0
	if r.Lines() > 1 {
		area = t.rules.AreaBonus
	}

	combo := 1.0
	if t.combo > 0 {
		combo = 1 + float64(t.combo)*t.rules.ComboStep
	}

	// Absorb float noise such as 143.99999999999997 before flooring.
	return int(math.Floor(base*area*combo + floorEpsilon))
}

// UpdateScore adds the points for r to the score and advances or resets the
// combo. Returns the points earned.
func (t *ScoreTracker) UpdateScore(r ClearResult) int {
	points := t.Points(r)
	t.score += points

	if r.CellsCleared > 0 {
		t.combo++
		t.linesCleared += r.Lines()
		if t.combo > t.maxCombo {
			t.maxCombo = t.combo
		}
	} else {
		t.combo = 0
	}

	return points
}

// CalculateCenterPosition returns where a points popup should appear:
// the median cleared column and row, falling back to the board center on
// any axis with no cleared lines.
func (t *ScoreTracker) CalculateCenterPosition(r ClearResult) Position {
	center := GridSize / 2
	pos := Position{X: center, Y: center}
	if len(r.Cols) > 0 {
		pos.X = r.Cols[len(r.Cols)/2]
	}
	if len(r.Rows) > 0 {
		pos.Y = r.Rows[len(r.Rows)/2]
	}
	return pos
}

// ResetCombo sets the combo streak to zero.
func (t *ScoreTracker) ResetCombo() {
	t.combo = 0
}

// Reset zeroes score, combo and statistics.
func (t *ScoreTracker) Reset() {
	t.score = 0
	t.combo = 0
	t.maxCombo = 0
	t.linesCleared = 0
}
