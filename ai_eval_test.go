package main

import "testing"

func defaultWeights() ThreatWeights {
	return resolveThreatWeights(DefaultConfig())
}

func TestEvalMoveFiveCompletionMeetsWinningScore(t *testing.T) {
	board := NewBoard(9)
	for r := 1; r <= 4; r++ {
		board.Set(r, 3, CellBlack)
	}

	for _, cell := range []Move{{R: 0, C: 3}, {R: 5, C: 3}} {
		score := EvalMove(board, cell.R, cell.C, PlayerBlack, defaultWeights())
		if score < WinningScore {
			t.Fatalf("five completion at (%d,%d) scored %d, below winning threshold %d",
				cell.R, cell.C, score, WinningScore)
		}
	}
}

func TestEvalMoveBlockingFiveMeetsWinningScore(t *testing.T) {
	board := NewBoard(9)
	for r := 1; r <= 4; r++ {
		board.Set(r, 3, CellBlack)
	}

	// White on the completing cell denies the five; blocking counts like
	// occupying.
	score := EvalMove(board, 5, 3, PlayerWhite, defaultWeights())
	if score < WinningScore {
		t.Fatalf("blocking an open four scored %d, below winning threshold %d", score, WinningScore)
	}
}

func TestEvalMoveOpenThreeExtensionIsThreatening(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 3, CellBlack)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellBlack)

	score := EvalMove(board, 4, 2, PlayerBlack, defaultWeights())
	if score < ThreateningScore {
		t.Fatalf("open four creation scored %d, below threatening threshold %d", score, ThreateningScore)
	}
	if score >= WinningScore {
		t.Fatalf("open four creation scored %d, at or above winning threshold %d", score, WinningScore)
	}
}

func TestEvalMoveQuietCellStaysBelowThresholds(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)

	score := EvalMove(board, 4, 5, PlayerWhite, defaultWeights())
	if score >= ThreateningScore {
		t.Fatalf("quiet neighbor cell scored %d, at or above threatening threshold", score)
	}
}

func TestEvalMoveEdgeWindowReadsAsBlocked(t *testing.T) {
	board := NewBoard(9)
	board.Set(0, 1, CellBlack)
	board.Set(0, 2, CellBlack)
	board.Set(0, 3, CellBlack)

	// Three on the top edge: the vertical direction is walled off, the
	// horizontal extension still threatens.
	score := EvalMove(board, 0, 4, PlayerBlack, defaultWeights())
	if score < ThreateningScore {
		t.Fatalf("edge row extension scored %d, below threatening threshold", score)
	}
}

func TestEvalStateEmptyBoardIsZero(t *testing.T) {
	board := NewBoard(9)
	if score := EvalState(board, PlayerBlack, defaultWeights()); score != 0 {
		t.Fatalf("empty board evaluated to %d, want 0", score)
	}
}

func TestEvalStatePositiveNearOwnStones(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)
	board.Set(4, 5, CellBlack)

	if score := EvalState(board, PlayerBlack, defaultWeights()); score <= 0 {
		t.Fatalf("position with an unopposed pair evaluated to %d, want > 0", score)
	}
}
