package main

import "fmt"

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) IsLegal(state GameState, move Move, player PlayerColor) (bool, string) {
	if !move.IsValid(r.settings.BoardSize) {
		return false, "out of bounds"
	}
	if !state.Board.IsEmpty(move.R, move.C) {
		return false, "occupied"
	}
	return true, ""
}

func (r Rules) IsLegalDefault(state GameState, move Move) (bool, string) {
	return r.IsLegal(state, move, state.ToMove)
}

func (r Rules) IsWin(board Board, lastMove Move) bool {
	if !lastMove.IsValid(r.settings.BoardSize) {
		return false
	}
	if board.At(lastMove.R, lastMove.C) == CellEmpty {
		return false
	}
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		dr := directions[i][0]
		dc := directions[i][1]
		count := 1
		count += r.countDirection(board, lastMove, dr, dc)
		count += r.countDirection(board, lastMove, -dr, -dc)
		if count >= r.settings.WinLength {
			return true
		}
	}
	return false
}

func (r Rules) IsDraw(board Board) bool {
	return board.CountEmpty() == 0
}

// FindAlignmentLine returns the aligned run through lastMove when it is long
// enough to win.
func (r Rules) FindAlignmentLine(board Board, lastMove Move) ([]Move, bool) {
	line := []Move{}
	if !lastMove.IsValid(r.settings.BoardSize) {
		return line, false
	}
	if board.At(lastMove.R, lastMove.C) == CellEmpty {
		return line, false
	}
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		dr := directions[i][0]
		dc := directions[i][1]
		line = r.collectLine(board, lastMove, dr, dc)
		if len(line) >= r.settings.WinLength {
			return line, true
		}
	}
	return []Move{}, false
}

func (r Rules) WinLength() int {
	return r.settings.WinLength
}

func (r Rules) BoardSize() int {
	return r.settings.BoardSize
}

func (r Rules) countDirection(board Board, start Move, dr, dc int) int {
	target := board.At(start.R, start.C)
	rr := start.R + dr
	cc := start.C + dc
	count := 0
	for board.InBounds(rr, cc) && board.At(rr, cc) == target {
		count++
		rr += dr
		cc += dc
	}
	return count
}

func (r Rules) collectLine(board Board, start Move, dr, dc int) []Move {
	line := []Move{}
	target := board.At(start.R, start.C)
	rr := start.R
	cc := start.C
	for board.InBounds(rr-dr, cc-dc) && board.At(rr-dr, cc-dc) == target {
		rr -= dr
		cc -= dc
	}
	for board.InBounds(rr, cc) && board.At(rr, cc) == target {
		line = append(line, Move{R: rr, C: cc})
		rr += dr
		cc += dc
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{size=%d, win=%d}", r.settings.BoardSize, r.settings.WinLength)
}
