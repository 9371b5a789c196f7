package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// remoteRadius is the Chebyshev distance within which a cell must have a
// neighbor stone to be considered for search.
const remoteRadius = 2

type Board struct {
	size  int
	cells []Cell
}

func NewBoard(boardSize int) Board {
	b := Board{}
	b.Reset(boardSize)
	return b
}

func (b *Board) Reset(boardSize int) {
	b.size = boardSize
	b.cells = make([]Cell, boardSize*boardSize)
}

func (b Board) At(r, c int) Cell {
	return b.cells[b.index(r, c)]
}

func (b *Board) Set(r, c int, value Cell) {
	b.cells[b.index(r, c)] = value
}

func (b *Board) Remove(r, c int) {
	b.cells[b.index(r, c)] = CellEmpty
}

func (b Board) InBounds(r, c int) bool {
	return r >= 0 && c >= 0 && r < b.size && c < b.size
}

func (b Board) IsEmpty(r, c int) bool {
	return b.InBounds(r, c) && b.At(r, c) == CellEmpty
}

// IsRemote reports whether (r, c) has no stone within remoteRadius.
// Remote cells are never worth searching.
func (b Board) IsRemote(r, c int) bool {
	for i := r - remoteRadius; i <= r+remoteRadius; i++ {
		if i < 0 || i >= b.size {
			continue
		}
		for j := c - remoteRadius; j <= c+remoteRadius; j++ {
			if j < 0 || j >= b.size {
				continue
			}
			if b.cells[i*b.size+j] != CellEmpty {
				return false
			}
		}
	}
	return true
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) CountStones() int {
	return len(b.cells) - b.CountEmpty()
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Equals reports cell-for-cell identity. Used by tests to check that a
// search left the board untouched.
func (b Board) Equals(other Board) bool {
	if b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String encodes the board as size*size characters '0' (empty), '1' (black),
// '2' (white) in row-major order. This is the analyze API's board format.
func (b Board) String() string {
	out := make([]byte, len(b.cells))
	for i, cell := range b.cells {
		out[i] = byte('0' + cell)
	}
	return string(out)
}

// BoardFromString decodes the row-major '0'/'1'/'2' encoding produced by
// Board.String.
func BoardFromString(s string, boardSize int) (Board, error) {
	if boardSize <= 0 {
		return Board{}, fmt.Errorf("invalid board size %d", boardSize)
	}
	if len(s) != boardSize*boardSize {
		return Board{}, fmt.Errorf("board string length %d does not match size %d", len(s), boardSize)
	}
	b := NewBoard(boardSize)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			b.cells[i] = CellBlack
		case '2':
			b.cells[i] = CellWhite
		default:
			return Board{}, fmt.Errorf("invalid board character %q at index %d", s[i], i)
		}
	}
	return b, nil
}

func (b Board) index(r, c int) int {
	return r*b.size + c
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
