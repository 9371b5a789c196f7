package main

import (
	"math"
	"sort"
	"time"
)

// Depth sentinels for AISearchSettings.Depth and the ai_depth config field.
// Positive values force that exact depth.
const (
	SearchDepthAuto     = 0
	SearchDepthDisabled = -1
)

const (
	// With at most two stones down, deep search buys nothing.
	openingStoneLimit  = 2
	openingSearchDepth = 6

	iterativeStartDepth = 4
	iterativeDepthStep  = 2

	// Child scores at or above this floor are decayed once per layer.
	scoreDecayFloor = 10

	searchAlphaInit = math.MinInt / 2
	searchBetaInit  = math.MaxInt / 2
)

type AISearchSettings struct {
	Player        PlayerColor
	Depth         int
	TimeLimitMs   int
	EnablePruning bool
	Config        Config
	Stats         *SearchStats

	// ShouldStop is polled between deepening iterations only; a started
	// iteration always runs to completion.
	ShouldStop func() bool

	// OnDepthComplete receives the best move after each completed depth.
	OnDepthComplete func(move Move, depth int, score int)
}

// scoredMove is a candidate cell. heuristicVal orders candidates for
// generation; actualScore ranks them after their subtree has been searched.
// The two orderings are distinct.
type scoredMove struct {
	move         Move
	heuristicVal int
	actualScore  int
}

type searchContext struct {
	initialDepth  int
	enablePruning bool
	breadth       int
	topBreadth    int
	decayFactor   float64
	overrideRatio float64
	weights       ThreatWeights
	stats         *SearchStats

	// traceAlpha observes the window lower bound after each candidate.
	// Set only by tests.
	traceAlpha func(depth, alpha int)
}

func newSearchContext(settings AISearchSettings, initialDepth int) *searchContext {
	config := settings.Config
	if config.AiSearchBreadth <= 0 {
		config.AiSearchBreadth = DefaultConfig().AiSearchBreadth
	}
	if config.AiTopLayerBreadth <= 0 {
		config.AiTopLayerBreadth = DefaultConfig().AiTopLayerBreadth
	}
	if config.AiScoreDecayFactor <= 0 || config.AiScoreDecayFactor >= 1 {
		config.AiScoreDecayFactor = DefaultConfig().AiScoreDecayFactor
	}
	if config.AiBlockingOverrideRatio <= 0 {
		config.AiBlockingOverrideRatio = DefaultConfig().AiBlockingOverrideRatio
	}
	stats := settings.Stats
	if stats == nil {
		stats = &SearchStats{Start: time.Now()}
	}
	return &searchContext{
		initialDepth:  initialDepth,
		enablePruning: settings.EnablePruning,
		breadth:       config.AiSearchBreadth,
		topBreadth:    config.AiTopLayerBreadth,
		decayFactor:   config.AiScoreDecayFactor,
		overrideRatio: config.AiBlockingOverrideRatio,
		weights:       resolveThreatWeights(config),
		stats:         stats,
	}
}

// FindBestMove picks a move for settings.Player. Depth >= 1 searches exactly
// that depth; SearchDepthAuto deepens iteratively under settings.TimeLimitMs;
// SearchDepthDisabled (and below) produces no move. The returned int is the
// deepest depth actually searched. The caller's board is never modified.
func FindBestMove(board Board, settings AISearchSettings) (Move, int, bool) {
	if settings.Depth <= SearchDepthDisabled {
		return NoMove(), 0, false
	}

	search := board.Clone()
	depth := settings.Depth
	if search.CountStones() <= openingStoneLimit {
		depth = openingSearchDepth
	}

	best := NoMove()
	actualDepth := 0

	if depth > 0 {
		ctx := newSearchContext(settings, depth)
		iterStart := time.Now()
		score := searchNode(&search, ctx, settings.Player, depth, searchAlphaInit, searchBetaInit, &best)
		ctx.stats.DepthDurations = append(ctx.stats.DepthDurations, time.Since(iterStart))
		ctx.stats.CompletedDepth = depth
		actualDepth = depth
		if settings.OnDepthComplete != nil {
			settings.OnDepthComplete(best, depth, score)
		}
	} else {
		config := settings.Config
		if config.AiAvgBranchingFactor <= 0 {
			config.AiAvgBranchingFactor = DefaultConfig().AiAvgBranchingFactor
		}
		if config.AiMaxDepth <= 0 {
			config.AiMaxDepth = DefaultConfig().AiMaxDepth
		}
		timeLimit := time.Duration(settings.TimeLimitMs) * time.Millisecond
		start := time.Now()
		for d := iterativeStartDepth; ; d += iterativeDepthStep {
			iterStart := time.Now()
			// Fresh copy per iteration; iteration bookkeeping must not
			// depend on the recursion's own restore discipline.
			search = board.Clone()
			ctx := newSearchContext(settings, d)
			score := searchNode(&search, ctx, settings.Player, d, searchAlphaInit, searchBetaInit, &best)
			iterElapsed := time.Since(iterStart)
			elapsed := time.Since(start)
			ctx.stats.DepthDurations = append(ctx.stats.DepthDurations, iterElapsed)
			ctx.stats.CompletedDepth = d
			actualDepth = d
			if settings.OnDepthComplete != nil {
				settings.OnDepthComplete(best, d, score)
			}
			// Project the next iteration's cost from this one before
			// committing to it.
			if d >= config.AiMaxDepth || elapsed+iterElapsed*time.Duration(config.AiAvgBranchingFactor)*2 > timeLimit {
				break
			}
			if settings.ShouldStop != nil && settings.ShouldStop() {
				break
			}
		}
	}

	return best, actualDepth, best.IsValid(board.Size())
}

// searchNode is the recursive core. It mutates board in place and restores
// it before returning on every path: place, recurse, remove, in strict stack
// order. best is written only when a move is chosen.
func searchNode(board *Board, ctx *searchContext, player PlayerColor, depth, alpha, beta int, best *Move) int {
	if depth == 0 {
		return 0
	}
	ctx.stats.Nodes++

	maxScore := searchAlphaInit
	opponent := otherPlayer(player)

	movesPlayer := searchMovesOrdered(board, player, ctx)
	movesOpponent := searchMovesOrdered(board, opponent, ctx)

	if len(movesPlayer) == 0 {
		return 0
	}

	// Forced move, or a move the evaluator already calls won.
	if len(movesPlayer) == 1 || movesPlayer[0].heuristicVal >= WinningScore {
		m := movesPlayer[0]
		if best != nil {
			*best = m.move
		}
		return m.heuristicVal
	}

	candidates := make([]scoredMove, 0, ctx.topBreadth+2)

	// An opponent threat forces its squares into our candidate set,
	// re-scored as our own moves.
	blockOpponent := false
	if len(movesOpponent) > 0 && movesOpponent[0].heuristicVal >= ThreateningScore {
		blockOpponent = true
		limit := min(len(movesOpponent), 2)
		for i := 0; i < limit; i++ {
			m := movesOpponent[i]
			ctx.stats.Evals++
			m.heuristicVal = EvalMove(*board, m.move.R, m.move.C, player, ctx.weights)
			candidates = append(candidates, m)
		}
	}

	// First ply of each side searches wider than the rest of the tree.
	breadth := ctx.breadth
	if (depth+1)>>1 == ctx.initialDepth>>1 {
		breadth = ctx.topBreadth
	}
	candidates = append(candidates, movesPlayer[:min(len(movesPlayer), breadth)]...)
	ctx.stats.CandidateCount += int64(len(candidates))

	playerCell := CellFromPlayer(player)
	for i := range candidates {
		m := &candidates[i]

		board.Set(m.move.R, m.move.C, playerCell)
		// The candidate's own heuristic shifts the child's window; this is
		// not a plain negamax hand-off.
		childScore := searchNode(board, ctx, opponent, depth-1, -beta, -alpha+m.heuristicVal, nil)
		board.Remove(m.move.R, m.move.C)

		// A nearer advantage outranks an equal one further away.
		if childScore >= scoreDecayFloor {
			childScore = int(float64(childScore) * ctx.decayFactor)
		}
		m.actualScore = m.heuristicVal - childScore

		if m.actualScore > maxScore {
			maxScore = m.actualScore
			if best != nil {
				*best = m.move
			}
		}

		// Beta compares against the decayed maximum; alpha is raised to the
		// raw one.
		maxScoreDecayed := maxScore
		if maxScore >= scoreDecayFloor {
			maxScoreDecayed = int(float64(maxScore) * ctx.decayFactor)
		}
		if maxScore > alpha {
			alpha = maxScore
		}
		if ctx.traceAlpha != nil {
			ctx.traceAlpha(depth, alpha)
		}
		if ctx.enablePruning && maxScoreDecayed >= beta {
			ctx.stats.Cutoffs++
			break
		}
	}

	// At the root of a losing position, fall back to blocking when no move
	// beats the block by a clear margin.
	if depth == ctx.initialDepth && blockOpponent && maxScore < 0 {
		blocking := candidates[0]
		bScore := blocking.actualScore
		if bScore == 0 {
			bScore = 1
		}
		if float64(maxScore-bScore)/math.Abs(float64(bScore)) < ctx.overrideRatio {
			if best != nil {
				*best = blocking.move
			}
			maxScore = blocking.actualScore
		}
	}

	return maxScore
}

// searchMovesOrdered lists every empty, non-remote cell inside the stone
// bounding box expanded by two, scored for player and sorted best first.
// An empty board yields no candidates; the first move is the caller's
// problem.
func searchMovesOrdered(board *Board, player PlayerColor, ctx *searchContext) []scoredMove {
	size := board.Size()

	minR, minC := size, size
	maxR, maxC := -1, -1
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if board.At(r, c) == CellEmpty {
				continue
			}
			if r < minR {
				minR = r
			}
			if c < minC {
				minC = c
			}
			if r > maxR {
				maxR = r
			}
			if c > maxC {
				maxC = c
			}
		}
	}
	if maxR < 0 {
		return nil
	}

	if minR-2 < 0 {
		minR = 2
	}
	if minC-2 < 0 {
		minC = 2
	}
	if maxR+2 >= size {
		maxR = size - 3
	}
	if maxC+2 >= size {
		maxC = size - 3
	}

	result := make([]scoredMove, 0, 32)
	for r := minR - 2; r <= maxR+2; r++ {
		for c := minC - 2; c <= maxC+2; c++ {
			if board.At(r, c) != CellEmpty {
				continue
			}
			if board.IsRemote(r, c) {
				continue
			}
			ctx.stats.Evals++
			result = append(result, scoredMove{
				move:         Move{R: r, C: c},
				heuristicVal: EvalMove(*board, r, c, player, ctx.weights),
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].heuristicVal != result[j].heuristicVal {
			return result[i].heuristicVal > result[j].heuristicVal
		}
		if result[i].move.R != result[j].move.R {
			return result[i].move.R < result[j].move.R
		}
		return result[i].move.C < result[j].move.C
	})
	return result
}

// ExhaustiveSearch is the brute-force baseline: every empty, non-remote cell
// on the whole board, no ordering, no pruning, no time budget. Usable only
// for small boards or shallow depths.
func ExhaustiveSearch(board Board, player PlayerColor, depth int) (Move, bool) {
	if depth <= 0 {
		return NoMove(), false
	}
	search := board.Clone()
	best := NoMove()
	exhaustiveNegamax(&search, player, depth, resolveThreatWeights(GetConfig()), &best)
	return best, best.IsValid(board.Size())
}

func exhaustiveNegamax(board *Board, player PlayerColor, depth int, weights ThreatWeights, best *Move) int {
	if depth == 0 {
		return EvalState(*board, player, weights)
	}

	maxScore := searchAlphaInit
	size := board.Size()
	playerCell := CellFromPlayer(player)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if board.At(r, c) != CellEmpty {
				continue
			}
			if board.IsRemote(r, c) {
				continue
			}

			board.Set(r, c, playerCell)
			s := -exhaustiveNegamax(board, otherPlayer(player), depth-1, weights, nil)
			board.Remove(r, c)

			if s > maxScore {
				maxScore = s
				if best != nil {
					*best = Move{R: r, C: c}
				}
			}
		}
	}
	return maxScore
}
