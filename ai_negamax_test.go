package main

import (
	"testing"
	"time"
)

func testSettings(player PlayerColor, depth int) AISearchSettings {
	return AISearchSettings{
		Player:        player,
		Depth:         depth,
		TimeLimitMs:   5500,
		EnablePruning: true,
		Config:        DefaultConfig(),
		Stats:         &SearchStats{Start: time.Now()},
	}
}

func TestSearchRestoresBoard(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellBlack)
	board.Set(3, 3, CellWhite)
	board.Set(5, 5, CellWhite)
	original := board.Clone()

	settings := testSettings(PlayerBlack, 2)
	ctx := newSearchContext(settings, 2)
	best := NoMove()
	searchNode(&board, ctx, PlayerBlack, 2, searchAlphaInit, searchBetaInit, &best)

	if !board.Equals(original) {
		t.Fatalf("search left the board modified:\n%s\nwant:\n%s", board.String(), original.String())
	}
	if !best.IsValid(9) {
		t.Fatalf("expected a move on a playable position, got %+v", best)
	}
}

func TestFindBestMoveDoesNotTouchCallerBoard(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellWhite)
	board.Set(5, 4, CellBlack)
	original := board.Clone()

	if _, _, ok := FindBestMove(board, testSettings(PlayerWhite, 2)); !ok {
		t.Fatalf("expected a move")
	}
	if !board.Equals(original) {
		t.Fatalf("caller board was modified by FindBestMove")
	}
}

func TestSingleCandidateShortcut(t *testing.T) {
	// Fill a 5x5 board except one cell; the search must take it without
	// recursing.
	board := NewBoard(5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if r == 2 && c == 2 {
				continue
			}
			if (r+c)%2 == 0 {
				board.Set(r, c, CellBlack)
			} else {
				board.Set(r, c, CellWhite)
			}
		}
	}

	settings := testSettings(PlayerBlack, 3)
	ctx := newSearchContext(settings, 3)
	best := NoMove()
	score := searchNode(&board, ctx, PlayerBlack, 3, searchAlphaInit, searchBetaInit, &best)

	if best.R != 2 || best.C != 2 {
		t.Fatalf("expected the only candidate (2,2), got (%d,%d)", best.R, best.C)
	}
	want := EvalMove(board, 2, 2, PlayerBlack, ctx.weights)
	if score != want {
		t.Fatalf("expected the candidate's heuristic value %d, got %d", want, score)
	}
	if ctx.stats.Nodes != 1 {
		t.Fatalf("expected no recursion below the shortcut, counted %d nodes", ctx.stats.Nodes)
	}
}

func TestForcedWinShortcut(t *testing.T) {
	board := NewBoard(9)
	for c := 2; c <= 5; c++ {
		board.Set(4, c, CellBlack)
	}

	settings := testSettings(PlayerBlack, 2)
	move, _, ok := FindBestMove(board, settings)
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.R != 4 || (move.C != 1 && move.C != 6) {
		t.Fatalf("expected a five-completing cell (4,1) or (4,6), got (%d,%d)", move.R, move.C)
	}
	if settings.Stats.Nodes != 1 {
		t.Fatalf("expected the winning shortcut to skip recursion, counted %d nodes", settings.Stats.Nodes)
	}
}

func TestPruningDoesNotChangeResult(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellWhite)
	board.Set(5, 4, CellBlack)
	board.Set(3, 4, CellWhite)
	board.Set(5, 5, CellBlack)
	board.Set(3, 3, CellWhite)

	run := func(pruning bool) (Move, int, int64) {
		work := board.Clone()
		settings := testSettings(PlayerBlack, 4)
		settings.EnablePruning = pruning
		settings.Config.AiSearchBreadth = 3
		settings.Config.AiTopLayerBreadth = 6
		ctx := newSearchContext(settings, 4)
		best := NoMove()
		score := searchNode(&work, ctx, PlayerBlack, 4, searchAlphaInit, searchBetaInit, &best)
		return best, score, ctx.stats.Nodes
	}

	prunedMove, prunedScore, prunedNodes := run(true)
	fullMove, fullScore, fullNodes := run(false)

	if !prunedMove.Equals(fullMove) {
		t.Fatalf("pruning changed the chosen move: (%d,%d) vs (%d,%d)",
			prunedMove.R, prunedMove.C, fullMove.R, fullMove.C)
	}
	if prunedScore != fullScore {
		t.Fatalf("pruning changed the score: %d vs %d", prunedScore, fullScore)
	}
	if prunedNodes > fullNodes {
		t.Fatalf("pruning searched more nodes (%d) than the full search (%d)", prunedNodes, fullNodes)
	}
}

func TestAlphaMonotonicUnderPruning(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellBlack)
	board.Set(3, 3, CellWhite)
	board.Set(5, 5, CellWhite)

	settings := testSettings(PlayerBlack, 2)
	settings.Config.AiSearchBreadth = 3
	settings.Config.AiTopLayerBreadth = 6
	ctx := newSearchContext(settings, 2)

	// The root is the only node at the initial depth, so filtering on it
	// yields that single node's alpha progression.
	var rootAlphas []int
	ctx.traceAlpha = func(depth, alpha int) {
		if depth == ctx.initialDepth {
			rootAlphas = append(rootAlphas, alpha)
		}
	}

	best := NoMove()
	score := searchNode(&board, ctx, PlayerBlack, 2, searchAlphaInit, searchBetaInit, &best)

	if len(rootAlphas) < 2 {
		t.Fatalf("expected several root candidates, observed %d", len(rootAlphas))
	}
	if rootAlphas[0] <= searchAlphaInit {
		t.Fatalf("first candidate did not raise alpha above the initial window: %d", rootAlphas[0])
	}
	for i := 1; i < len(rootAlphas); i++ {
		if rootAlphas[i] < rootAlphas[i-1] {
			t.Fatalf("alpha regressed at candidate %d: %d < %d", i, rootAlphas[i], rootAlphas[i-1])
		}
	}
	if last := rootAlphas[len(rootAlphas)-1]; last != score {
		t.Fatalf("final alpha %d does not match the root score %d", last, score)
	}
}

func TestOpeningForcesFixedDepthSix(t *testing.T) {
	config := DefaultConfig()
	// Narrow the tree so a depth-6 run stays cheap.
	config.AiSearchBreadth = 1
	config.AiTopLayerBreadth = 2

	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellWhite)

	for _, requested := range []int{SearchDepthAuto, 2} {
		settings := testSettings(PlayerBlack, requested)
		settings.Config = config
		settings.TimeLimitMs = 1
		move, depth, ok := FindBestMove(board, settings)
		if !ok {
			t.Fatalf("depth %d: expected a move", requested)
		}
		if depth != openingSearchDepth {
			t.Fatalf("depth %d: expected forced opening depth %d, got %d", requested, openingSearchDepth, depth)
		}
		if !move.IsValid(9) {
			t.Fatalf("depth %d: invalid move %+v", requested, move)
		}
	}
}

func TestDisabledSentinelProducesNoMove(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	settings := testSettings(PlayerWhite, SearchDepthDisabled)
	if move, depth, ok := FindBestMove(board, settings); ok || depth != 0 || move.IsValid(9) {
		t.Fatalf("expected no move with the disabled sentinel, got %+v depth=%d ok=%v", move, depth, ok)
	}
}

func TestTimeBudgetControlsIterativeDepth(t *testing.T) {
	config := DefaultConfig()
	config.AiSearchBreadth = 1
	config.AiTopLayerBreadth = 2

	board := NewBoard(11)
	board.Set(5, 5, CellBlack)
	board.Set(5, 6, CellWhite)
	board.Set(6, 5, CellBlack)
	board.Set(4, 6, CellWhite)
	board.Set(6, 6, CellBlack)

	runAuto := func(limitMs int) int {
		settings := testSettings(PlayerWhite, SearchDepthAuto)
		settings.Config = config
		settings.TimeLimitMs = limitMs
		_, depth, ok := FindBestMove(board, settings)
		if !ok {
			t.Fatalf("limit %dms: expected a move", limitMs)
		}
		return depth
	}

	tight := runAuto(0)
	if tight != iterativeStartDepth {
		t.Fatalf("zero budget must still complete the first iteration at depth %d, got %d", iterativeStartDepth, tight)
	}
	generous := runAuto(60000)
	if generous < tight {
		t.Fatalf("larger budget searched shallower: %d < %d", generous, tight)
	}
}

func TestExhaustiveAndHeuristicAgreeOnImmediateWin(t *testing.T) {
	board := NewBoard(7)
	for c := 1; c <= 4; c++ {
		board.Set(3, c, CellBlack)
	}

	exMove, ok := ExhaustiveSearch(board, PlayerBlack, 1)
	if !ok {
		t.Fatalf("exhaustive search produced no move")
	}
	if exMove.R != 3 || (exMove.C != 0 && exMove.C != 5) {
		t.Fatalf("exhaustive search missed the win, got (%d,%d)", exMove.R, exMove.C)
	}

	hMove, _, ok := FindBestMove(board, testSettings(PlayerBlack, 1))
	if !ok {
		t.Fatalf("heuristic search produced no move")
	}
	if hMove.R != 3 || (hMove.C != 0 && hMove.C != 5) {
		t.Fatalf("heuristic search missed the win, got (%d,%d)", hMove.R, hMove.C)
	}
}

func TestSearchBlocksOpenThree(t *testing.T) {
	// Black threatens .MMM. on row 3; white has no comparable threat and
	// must answer on one of the extension cells.
	board := NewBoard(9)
	board.Set(3, 2, CellBlack)
	board.Set(3, 3, CellBlack)
	board.Set(3, 4, CellBlack)
	board.Set(7, 7, CellWhite)

	move, _, ok := FindBestMove(board, testSettings(PlayerWhite, 2))
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.R != 3 || (move.C != 1 && move.C != 5) {
		t.Fatalf("expected white to block at (3,1) or (3,5), got (%d,%d)", move.R, move.C)
	}
}

func TestCandidatesEmptyBoard(t *testing.T) {
	board := NewBoard(9)
	ctx := newSearchContext(testSettings(PlayerBlack, 2), 2)
	if moves := searchMovesOrdered(&board, PlayerBlack, ctx); moves != nil {
		t.Fatalf("expected no candidates on an empty board, got %d", len(moves))
	}
}

func TestCandidatesCornerStoneStaysInBounds(t *testing.T) {
	board := NewBoard(9)
	board.Set(0, 0, CellBlack)
	ctx := newSearchContext(testSettings(PlayerWhite, 2), 2)
	moves := searchMovesOrdered(&board, PlayerWhite, ctx)

	// Every empty cell within Chebyshev distance 2 of the corner stone.
	if len(moves) != 8 {
		t.Fatalf("expected 8 candidates around a corner stone, got %d", len(moves))
	}
	for _, m := range moves {
		if m.move.R < 0 || m.move.C < 0 || m.move.R > 2 || m.move.C > 2 {
			t.Fatalf("candidate (%d,%d) outside the non-remote neighborhood", m.move.R, m.move.C)
		}
		if m.move.R == 0 && m.move.C == 0 {
			t.Fatalf("occupied cell listed as a candidate")
		}
	}
}

func TestCandidatesSortedByHeuristicDescending(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellBlack)
	board.Set(5, 5, CellWhite)
	ctx := newSearchContext(testSettings(PlayerBlack, 2), 2)
	moves := searchMovesOrdered(&board, PlayerBlack, ctx)

	if len(moves) == 0 {
		t.Fatalf("expected candidates")
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].heuristicVal > moves[i-1].heuristicVal {
			t.Fatalf("candidates not sorted descending at %d: %d > %d",
				i, moves[i].heuristicVal, moves[i-1].heuristicVal)
		}
	}
	for _, m := range moves {
		if board.At(m.move.R, m.move.C) != CellEmpty {
			t.Fatalf("occupied cell (%d,%d) listed as a candidate", m.move.R, m.move.C)
		}
		if board.IsRemote(m.move.R, m.move.C) {
			t.Fatalf("remote cell (%d,%d) listed as a candidate", m.move.R, m.move.C)
		}
	}
}

func TestExhaustiveSearchRestoresBoard(t *testing.T) {
	board := NewBoard(7)
	board.Set(3, 3, CellBlack)
	board.Set(3, 4, CellWhite)
	original := board.Clone()

	if _, ok := ExhaustiveSearch(board, PlayerBlack, 2); !ok {
		t.Fatalf("expected a move")
	}
	if !board.Equals(original) {
		t.Fatalf("exhaustive search modified the caller board")
	}
}
