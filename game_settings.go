package main

import "fmt"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	BoardSize   int        `json:"board_size"`
	WinLength   int        `json:"win_length"`
	BlackType   PlayerType `json:"-"`
	WhiteType   PlayerType `json:"-"`
	BlackStarts bool       `json:"black_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:   15,
		WinLength:   5,
		BlackType:   PlayerHuman,
		WhiteType:   PlayerAI,
		BlackStarts: true,
	}
}

func (s GameSettings) Validate() error {
	if s.BoardSize < 5 || s.BoardSize > 32 {
		return fmt.Errorf("board size %d out of range [5, 32]", s.BoardSize)
	}
	if s.WinLength < 3 || s.WinLength > s.BoardSize {
		return fmt.Errorf("win length %d out of range [3, %d]", s.WinLength, s.BoardSize)
	}
	return nil
}
