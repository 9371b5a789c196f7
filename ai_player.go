package main

import (
	"sync"
	"sync/atomic"
	"time"
)

type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	stopSignal atomic.Bool
	readyMove  Move
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// openingMove guards the one position the candidate generator refuses: an
// empty board has no stone bounding box, so the first stone goes to the
// center.
func openingMove(board Board) (Move, bool) {
	if board.CountStones() > 0 {
		return NoMove(), false
	}
	center := board.Size() / 2
	return Move{R: center, C: center}, true
}

func aiSearchSettings(state GameState, config Config, stats *SearchStats) AISearchSettings {
	return AISearchSettings{
		Player:        state.ToMove,
		Depth:         config.AiDepth,
		TimeLimitMs:   config.AiTimeLimitMs,
		EnablePruning: config.AiEnablePruning,
		Config:        config,
		Stats:         stats,
	}
}

func (a *AIPlayer) ChooseMove(state GameState, rules Rules) Move {
	config := GetConfig()
	if config.AiDepth <= SearchDepthDisabled {
		return NoMove()
	}
	if move, ok := openingMove(state.Board); ok {
		return move
	}
	stats := &SearchStats{Start: time.Now()}
	settings := aiSearchSettings(state, config, stats)
	move, depth, ok := FindBestMove(state.Board, settings)
	if config.AiLogSearchStats {
		logSearchStats("choose", stats, settings)
	}
	if !ok {
		return NoMove()
	}
	move.Depth = depth
	return move
}

// StartThinking runs one search in a background worker. Progress surfaces
// through onDepth after each completed depth when ghost mode is on; the
// finished move is collected with HasMoveReady/TakeMove.
func (a *AIPlayer) StartThinking(state GameState, rules Rules, onDepth func(move Move, depth, score int)) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		move := NoMove()
		ok := false
		if config.AiDepth > SearchDepthDisabled {
			if opening, isOpening := openingMove(stateCopy.Board); isOpening {
				move = opening
				ok = true
			} else {
				stats := &SearchStats{Start: time.Now()}
				settings := aiSearchSettings(stateCopy, config, stats)
				settings.ShouldStop = func() bool { return a.stopSignal.Load() }
				if config.GhostMode && onDepth != nil {
					settings.OnDepthComplete = onDepth
				}
				var depth int
				move, depth, ok = FindBestMove(stateCopy.Board, settings)
				if ok {
					move.Depth = depth
				}
				if config.AiLogSearchStats {
					logSearchStats("think", stats, settings)
				}
			}
		}
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		a.moveMutex.Lock()
		if ok {
			a.readyMove = move
		} else {
			a.readyMove = NoMove()
		}
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

// StopThinking asks a running search to wind down. The request is honored
// between deepening iterations; the worker discards its result.
func (a *AIPlayer) StopThinking() {
	if !a.thinking.Load() {
		return
	}
	a.stopSignal.Store(true)
}

func (a *AIPlayer) ResetForConfigChange() {
	a.stopSignal.Store(true)
}
