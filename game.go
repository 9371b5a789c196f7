package main

import (
	"fmt"
	"log"
	"time"
)

type Game struct {
	settings          GameSettings
	rules             Rules
	state             GameState
	history           MoveHistory
	blackPlayer       IPlayer
	whitePlayer       IPlayer
	moveSuggestionAI  *AIPlayer
	moveSuggestionKey int
	aiIdle            bool
	turnStart         time.Time
	coordWidth        int
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopMoveSuggestion(nil)
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.computeLogWidths()
	g.aiIdle = false
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
		g.stopMoveSuggestion(nil)
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	ok, reason := g.rules.IsLegalDefault(g.state, move)
	if !ok {
		g.state.LastMessage = "Illegal move: " + reason
		return false, g.state.LastMessage
	}
	g.stopMoveSuggestion(nil)
	g.state.LastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	cell := CellFromPlayer(g.state.ToMove)
	g.state.Board.Set(move.R, move.C, cell)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.WinningLine = nil

	entry := HistoryEntry{Move: move, Player: g.state.ToMove, ElapsedMs: elapsedMs, IsAi: isAiMove, Depth: move.Depth}
	g.history.Push(entry)
	g.logMovePlayed(move, elapsedMs, isAiMove)

	if g.rules.IsWin(g.state.Board, move) {
		if line, found := g.rules.FindAlignmentLine(g.state.Board, move); found {
			g.state.WinningLine = line
		}
		g.logWin(g.state.ToMove)
		if g.state.ToMove == PlayerBlack {
			g.state.Status = StatusBlackWon
		} else {
			g.state.Status = StatusWhiteWon
		}
		return true, ""
	}
	if g.rules.IsDraw(g.state.Board) {
		g.state.Status = StatusDraw
		return true, ""
	}

	g.state.ToMove = otherPlayer(g.state.ToMove)
	g.turnStart = time.Now()
	return true, ""
}

func (g *Game) Tick(ghostEnabled bool, ghostSink func(ghostPayload)) bool {
	if g.state.Status != StatusRunning {
		g.stopMoveSuggestion(ghostSink)
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		g.stopMoveSuggestion(ghostSink)
		return false
	}
	if player.IsHuman() {
		if ghostEnabled && ghostSink != nil {
			g.startMoveSuggestion(ghostSink)
		} else {
			g.stopMoveSuggestion(ghostSink)
		}
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		return false
	}
	g.stopMoveSuggestion(ghostSink)
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			move := ai.TakeMove()
			if !move.IsValid(g.settings.BoardSize) {
				// The search found nothing to play. A full board is a draw;
				// otherwise stay idle until a reset or config change.
				if g.rules.IsDraw(g.state.Board) {
					g.state.Status = StatusDraw
					return true
				}
				g.aiIdle = true
				return false
			}
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		if !ai.IsThinking() && !g.aiIdle {
			var onDepth func(move Move, depth, score int)
			if ghostEnabled && ghostSink != nil {
				toMove := playerToInt(g.state.ToMove)
				historyLen := g.history.Size()
				onDepth = func(move Move, depth, score int) {
					ghostSink(ghostPayload{
						Mode:       "best_move",
						Best:       &ghostCell{R: move.R, C: move.C, Player: toMove},
						Depth:      depth,
						Score:      score,
						NextPlayer: toMove,
						HistoryLen: historyLen,
						Active:     true,
					})
				}
			}
			ai.StartThinking(g.state.Clone(), g.rules, onDepth)
		}
		return false
	}
	move := player.ChooseMove(g.state.Clone(), g.rules)
	applied, _ := g.TryApplyMove(move)
	return applied
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	if g.settings.BlackType == PlayerHuman {
		g.blackPlayer = NewHumanPlayer()
	} else {
		g.blackPlayer = NewAIPlayer()
	}
	if g.settings.WhiteType == PlayerHuman {
		g.whitePlayer = NewHumanPlayer()
	} else {
		g.whitePlayer = NewAIPlayer()
	}
	if g.moveSuggestionAI == nil {
		g.moveSuggestionAI = NewAIPlayer()
	}
}

func (g *Game) AiThinking() bool {
	player := g.currentPlayer()
	ai, ok := player.(*AIPlayer)
	if ok {
		return ai.IsThinking()
	}
	return false
}

func (g *Game) ResetForConfigChange() {
	g.stopMoveSuggestion(nil)
	g.aiIdle = false
	if aiBlack, ok := g.blackPlayer.(*AIPlayer); ok {
		aiBlack.ResetForConfigChange()
	}
	if aiWhite, ok := g.whitePlayer.(*AIPlayer); ok {
		aiWhite.ResetForConfigChange()
	}
	if g.moveSuggestionAI != nil {
		g.moveSuggestionAI.ResetForConfigChange()
	}
}

// startMoveSuggestion keeps one background search running while a human is to
// move. Keyed on the history length so each position is searched once and the
// result survives across ticks.
func (g *Game) startMoveSuggestion(ghostSink func(ghostPayload)) {
	if g.moveSuggestionAI == nil {
		g.moveSuggestionAI = NewAIPlayer()
	}
	key := g.history.Size()
	if g.moveSuggestionKey == key && (g.moveSuggestionAI.IsThinking() || g.moveSuggestionAI.HasMoveReady()) {
		return
	}
	g.moveSuggestionAI.StopThinking()
	g.moveSuggestionKey = key
	state := g.state.Clone()
	toMove := playerToInt(state.ToMove)
	g.moveSuggestionAI.StartThinking(state, g.rules, func(move Move, depth, score int) {
		ghostSink(ghostPayload{
			Mode:       "best_move",
			Best:       &ghostCell{R: move.R, C: move.C, Player: toMove},
			Depth:      depth,
			Score:      score,
			NextPlayer: toMove,
			HistoryLen: key,
			Active:     true,
		})
	})
}

func (g *Game) stopMoveSuggestion(ghostSink func(ghostPayload)) {
	g.moveSuggestionKey = -1
	if g.moveSuggestionAI != nil {
		g.moveSuggestionAI.StopThinking()
	}
	if ghostSink != nil {
		ghostSink(ghostPayload{
			Mode:   "best_move",
			Active: false,
		})
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[game] new match: Black (%s) vs White (%s), board %dx%d, win length %d",
		label(g.settings.BlackType), label(g.settings.WhiteType),
		g.settings.BoardSize, g.settings.BoardSize, g.settings.WinLength)
}

func (g *Game) logMovePlayed(move Move, elapsedMs float64, isAiMove bool) {
	kind := "human"
	if isAiMove {
		kind = "ai"
	}
	depthNote := ""
	if isAiMove && move.Depth > 0 {
		depthNote = fmt.Sprintf(" depth=%d", move.Depth)
	}
	log.Printf("[game] move #%d %s %s plays (%*d,%*d) t=%.0fms%s",
		g.history.Size(), g.state.ToMove, kind,
		g.coordWidth, move.R, g.coordWidth, move.C, elapsedMs, depthNote)
}

func (g *Game) logWin(player PlayerColor) {
	log.Printf("[game] %s wins by alignment after %d moves", player, g.history.Size())
}

func (g *Game) computeLogWidths() {
	digits := func(value int) int {
		width := 1
		for value >= 10 {
			value /= 10
			width++
		}
		return width
	}
	maxCoord := g.settings.BoardSize - 1
	if maxCoord < 0 {
		maxCoord = 0
	}
	g.coordWidth = digits(maxCoord)
}
