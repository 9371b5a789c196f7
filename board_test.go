package main

import "testing"

func TestBoardStringRoundTrip(t *testing.T) {
	board := NewBoard(7)
	board.Set(0, 0, CellBlack)
	board.Set(3, 4, CellWhite)
	board.Set(6, 6, CellBlack)

	encoded := board.String()
	if len(encoded) != 49 {
		t.Fatalf("expected 49 characters, got %d", len(encoded))
	}
	decoded, err := BoardFromString(encoded, 7)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equals(board) {
		t.Fatalf("round trip changed the board")
	}
}

func TestBoardFromStringRejectsBadInput(t *testing.T) {
	if _, err := BoardFromString("012", 7); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	bad := make([]byte, 49)
	for i := range bad {
		bad[i] = '0'
	}
	bad[10] = 'x'
	if _, err := BoardFromString(string(bad), 7); err == nil {
		t.Fatalf("expected invalid character error")
	}
}

func TestIsRemote(t *testing.T) {
	board := NewBoard(9)
	board.Set(4, 4, CellBlack)

	if board.IsRemote(4, 4) {
		t.Fatalf("occupied cell reported remote")
	}
	if board.IsRemote(2, 2) {
		t.Fatalf("(2,2) is within radius 2 of the stone and must not be remote")
	}
	if board.IsRemote(6, 6) {
		t.Fatalf("(6,6) is within radius 2 of the stone and must not be remote")
	}
	if !board.IsRemote(7, 7) {
		t.Fatalf("(7,7) is outside radius 2 and must be remote")
	}
	if !board.IsRemote(0, 0) {
		t.Fatalf("corner far from the stone must be remote")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	board := NewBoard(5)
	board.Set(2, 2, CellBlack)
	clone := board.Clone()
	clone.Set(0, 0, CellWhite)

	if board.At(0, 0) != CellEmpty {
		t.Fatalf("mutating a clone leaked into the original")
	}
	if clone.At(2, 2) != CellBlack {
		t.Fatalf("clone lost a stone")
	}
}

func TestCountStones(t *testing.T) {
	board := NewBoard(5)
	if got := board.CountStones(); got != 0 {
		t.Fatalf("empty board counted %d stones", got)
	}
	board.Set(1, 1, CellBlack)
	board.Set(3, 3, CellWhite)
	if got := board.CountStones(); got != 2 {
		t.Fatalf("counted %d stones, want 2", got)
	}
	board.Remove(1, 1)
	if got := board.CountStones(); got != 1 {
		t.Fatalf("counted %d stones after removal, want 1", got)
	}
}
