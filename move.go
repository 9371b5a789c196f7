package main

type Move struct {
	R     int `json:"r"`
	C     int `json:"c"`
	Depth int `json:"depth,omitempty"`
}

func NewMove(r, c int) Move {
	return Move{R: r, C: c}
}

// NoMove is the sentinel returned when a search produced nothing.
func NoMove() Move {
	return Move{R: -1, C: -1}
}

func (m Move) IsValid(boardSize int) bool {
	return m.R >= 0 && m.C >= 0 && m.R < boardSize && m.C < boardSize
}

func (m Move) Equals(other Move) bool {
	return m.R == other.R && m.C == other.C
}
