package main

// Score thresholds shared with the search. A move whose heuristic value
// reaches WinningScore completes a five or blocks one; an opponent move at
// or above ThreateningScore has to be answered before quiet moves.
const (
	WinningScore     = 10000
	ThreateningScore = 1000
)

const (
	evalWindowRange = 5
	evalWindowSize  = evalWindowRange*2 + 1
)

type ThreatTotals struct {
	Win5    int
	Open4   int
	Closed4 int
	Broken4 int
	Open3   int
	Broken3 int
	Closed3 int
	Open2   int
	Broken2 int
}

type ThreatWeights struct {
	Open4        int
	Broken4      int
	Closed4      int
	Open3        int
	Broken3      int
	Closed3      int
	Open2        int
	Broken2      int
	ForkOpen3    int
	ForkFourPlus int
}

type patternMatch struct {
	pattern string
	apply   func(*ThreatTotals)
}

// Ordered strongest first; classifyWindow keeps the first match that covers
// the placed stone, so one direction contributes exactly one class.
var evalPatterns = [...]patternMatch{
	{pattern: "MMMMM", apply: func(t *ThreatTotals) { t.Win5++ }},
	{pattern: ".MMMM.", apply: func(t *ThreatTotals) { t.Open4++ }},
	{pattern: "OMMMM.", apply: func(t *ThreatTotals) { t.Closed4++ }},
	{pattern: ".MMMMO", apply: func(t *ThreatTotals) { t.Closed4++ }},
	{pattern: ".MMM.M.", apply: func(t *ThreatTotals) { t.Broken4++ }},
	{pattern: ".M.MMM.", apply: func(t *ThreatTotals) { t.Broken4++ }},
	{pattern: ".MMM.", apply: func(t *ThreatTotals) { t.Open3++ }},
	{pattern: ".MM.M.", apply: func(t *ThreatTotals) { t.Broken3++ }},
	{pattern: ".M.MM.", apply: func(t *ThreatTotals) { t.Broken3++ }},
	{pattern: "OMMM.", apply: func(t *ThreatTotals) { t.Closed3++ }},
	{pattern: ".MMMO", apply: func(t *ThreatTotals) { t.Closed3++ }},
	{pattern: ".MM.", apply: func(t *ThreatTotals) { t.Open2++ }},
	{pattern: ".M.M.", apply: func(t *ThreatTotals) { t.Broken2++ }},
}

// EvalMove scores placing player's stone on the empty cell (r, c). The cell
// is measured twice, once per side, and combined so that occupying outranks
// blocking the same shape.
func EvalMove(board Board, r, c int, player PlayerColor, weights ThreatWeights) int {
	own := evalMoveSide(board, r, c, player, weights)
	blocked := evalMoveSide(board, r, c, otherPlayer(player), weights)
	return own*2 + blocked
}

// EvalState scores a full position for player: the sum of EvalMove over
// every empty, non-remote cell. Used as the exhaustive baseline's leaf
// evaluation.
func EvalState(board Board, player PlayerColor, weights ThreatWeights) int {
	size := board.Size()
	score := 0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if board.At(r, c) != CellEmpty {
				continue
			}
			if board.IsRemote(r, c) {
				continue
			}
			score += EvalMove(board, r, c, player, weights)
		}
	}
	return score
}

func evalMoveSide(board Board, r, c int, side PlayerColor, weights ThreatWeights) int {
	var totals ThreatTotals
	var window [evalWindowSize]byte
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		fillWindow(board, r, c, directions[i][0], directions[i][1], side, window[:])
		classifyWindow(window[:], &totals)
	}
	if totals.Win5 > 0 {
		return WinningScore
	}
	return weightedSum(totals, weights) + forkBonus(totals, weights)
}

// fillWindow renders the line through (r, c) in direction (dr, dc) as bytes:
// 'M' for side's stones (the center is side's hypothetical stone), 'O' for
// the other side or the board edge, '.' for empty.
func fillWindow(board Board, r, c, dr, dc int, side PlayerColor, buf []byte) {
	sideCell := CellFromPlayer(side)
	for i := -evalWindowRange; i <= evalWindowRange; i++ {
		value := byte('O')
		if i == 0 {
			value = 'M'
		} else {
			rr := r + i*dr
			cc := c + i*dc
			if board.InBounds(rr, cc) {
				switch board.At(rr, cc) {
				case CellEmpty:
					value = '.'
				case sideCell:
					value = 'M'
				default:
					value = 'O'
				}
			}
		}
		buf[i+evalWindowRange] = value
	}
}

// classifyWindow records the strongest pattern that includes the center
// stone, or nothing if no pattern covers it.
func classifyWindow(window []byte, totals *ThreatTotals) {
	center := evalWindowRange
	for _, entry := range evalPatterns {
		for start := 0; start+len(entry.pattern) <= len(window); start++ {
			if center < start || center >= start+len(entry.pattern) {
				continue
			}
			if matchAt(window, entry.pattern, start) {
				entry.apply(totals)
				return
			}
		}
	}
}

func matchAt(tokens []byte, pattern string, start int) bool {
	if start+len(pattern) > len(tokens) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if tokens[start+i] != pattern[i] {
			return false
		}
	}
	return true
}

func weightedSum(t ThreatTotals, w ThreatWeights) int {
	return t.Open4*w.Open4 +
		t.Broken4*w.Broken4 +
		t.Closed4*w.Closed4 +
		t.Open3*w.Open3 +
		t.Broken3*w.Broken3 +
		t.Closed3*w.Closed3 +
		t.Open2*w.Open2 +
		t.Broken2*w.Broken2
}

func forkBonus(t ThreatTotals, w ThreatWeights) int {
	bonus := 0
	if t.Open3 >= 2 {
		bonus += w.ForkOpen3
	}
	if t.Open4+t.Closed4+t.Broken4 >= 2 {
		bonus += w.ForkFourPlus
	}
	return bonus
}

func resolveThreatWeights(config Config) ThreatWeights {
	if config.Heuristics == (HeuristicConfig{}) {
		config.Heuristics = DefaultConfig().Heuristics
	}
	return ThreatWeights{
		Open4:        config.Heuristics.Open4,
		Broken4:      config.Heuristics.Broken4,
		Closed4:      config.Heuristics.Closed4,
		Open3:        config.Heuristics.Open3,
		Broken3:      config.Heuristics.Broken3,
		Closed3:      config.Heuristics.Closed3,
		Open2:        config.Heuristics.Open2,
		Broken2:      config.Heuristics.Broken2,
		ForkOpen3:    config.Heuristics.ForkOpen3,
		ForkFourPlus: config.Heuristics.ForkFourPlus,
	}
}
