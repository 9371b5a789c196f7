package main

import "testing"

func TestIsWinHorizontal(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 9
	rules := NewRules(settings)
	board := NewBoard(9)
	for c := 2; c <= 5; c++ {
		board.Set(4, c, CellBlack)
	}
	if rules.IsWin(board, Move{R: 4, C: 5}) {
		t.Fatalf("four in a row must not win")
	}
	board.Set(4, 6, CellBlack)
	if !rules.IsWin(board, Move{R: 4, C: 6}) {
		t.Fatalf("five in a row must win")
	}
}

func TestIsWinDiagonalThroughMiddleStone(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 9
	rules := NewRules(settings)
	board := NewBoard(9)
	for i := 0; i < 5; i++ {
		board.Set(2+i, 2+i, CellWhite)
	}
	// The winning stone is not necessarily at an end of the run.
	if !rules.IsWin(board, Move{R: 4, C: 4}) {
		t.Fatalf("diagonal five must win from the middle stone")
	}
}

func TestFindAlignmentLine(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 9
	rules := NewRules(settings)
	board := NewBoard(9)
	for r := 1; r <= 5; r++ {
		board.Set(r, 3, CellBlack)
	}
	line, found := rules.FindAlignmentLine(board, Move{R: 3, C: 3})
	if !found {
		t.Fatalf("expected an alignment line")
	}
	if len(line) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(line))
	}
	for i, cell := range line {
		if cell.R != 1+i || cell.C != 3 {
			t.Fatalf("unexpected line cell %d: (%d,%d)", i, cell.R, cell.C)
		}
	}
}

func TestIsLegalRejectsOccupiedAndOutOfBounds(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 9
	rules := NewRules(settings)
	state := DefaultGameState(settings)
	state.Board.Set(4, 4, CellBlack)

	if ok, _ := rules.IsLegal(state, Move{R: 4, C: 4}, PlayerWhite); ok {
		t.Fatalf("occupied cell accepted")
	}
	if ok, _ := rules.IsLegal(state, Move{R: 9, C: 0}, PlayerWhite); ok {
		t.Fatalf("out-of-bounds move accepted")
	}
	if ok, reason := rules.IsLegal(state, Move{R: 0, C: 0}, PlayerWhite); !ok {
		t.Fatalf("legal move rejected: %s", reason)
	}
}

func TestIsDraw(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 5
	rules := NewRules(settings)
	board := NewBoard(5)
	if rules.IsDraw(board) {
		t.Fatalf("empty board reported as draw")
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if (r+c)%2 == 0 {
				board.Set(r, c, CellBlack)
			} else {
				board.Set(r, c, CellWhite)
			}
		}
	}
	if !rules.IsDraw(board) {
		t.Fatalf("full board not reported as draw")
	}
}

func TestGameSettingsValidate(t *testing.T) {
	good := DefaultGameSettings()
	if err := good.Validate(); err != nil {
		t.Fatalf("default settings must validate: %v", err)
	}
	tooSmall := good
	tooSmall.BoardSize = 4
	if err := tooSmall.Validate(); err == nil {
		t.Fatalf("board size 4 must be rejected")
	}
	badWin := good
	badWin.WinLength = badWin.BoardSize + 1
	if err := badWin.Validate(); err == nil {
		t.Fatalf("win length above board size must be rejected")
	}
}
