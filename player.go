package main

// IPlayer is a seat at the board. ChooseMove is the synchronous path used by
// simple players; AIPlayer additionally exposes the asynchronous thinking
// protocol consumed by Game.Tick.
type IPlayer interface {
	IsHuman() bool
	ChooseMove(state GameState, rules Rules) Move
}
