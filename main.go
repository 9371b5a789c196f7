package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []Move            `json:"winning_line"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	BoardSize   int    `json:"board_size,omitempty"`
	WinLength   int    `json:"win_length,omitempty"`
}

type apiMove struct {
	R      int `json:"r"`
	C      int `json:"c"`
	Player int `json:"player"`
}

type historyEntryDTO struct {
	R         int          `json:"r"`
	C         int          `json:"c"`
	Player    int          `json:"player"`
	ElapsedMs float64      `json:"elapsed_ms"`
	IsAi      bool         `json:"is_ai"`
	Changes   []cellChange `json:"changes"`
	Depth     int          `json:"depth"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	BoardSize       int               `json:"board_size"`
	WinningLine     []Move            `json:"winning_line"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type cellChange struct {
	R     int `json:"r"`
	C     int `json:"c"`
	Value int `json:"value"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type analyzeRequest struct {
	Board       string           `json:"board"`
	BoardSize   int              `json:"board_size,omitempty"`
	Player      int              `json:"player"`
	Depth       *int             `json:"depth,omitempty"`
	TimeLimitMs int              `json:"time_limit_ms,omitempty"`
	Heuristics  *HeuristicConfig `json:"heuristics,omitempty"`
}

type analyzeResponse struct {
	MoveR         int   `json:"move_r"`
	MoveC         int   `json:"move_c"`
	Depth         int   `json:"depth"`
	WinningPlayer int   `json:"winning_player"`
	NodeCount     int64 `json:"node_count"`
	EvalCount     int64 `json:"eval_count"`
	CpuTimeMs     int64 `json:"cpu_time_ms"`
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "bench" {
		runBench(os.Args[2:])
		return
	}

	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ghostHub := NewGhostHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller.SetGhostPublisher(
		func() bool { return ghostHub.HasClients() && GetConfig().GhostMode },
		func(payload ghostPayload) {
			ghostHub.Publish(payload)
		},
	)

	go hub.Run(ctx.Done())
	go ghostHub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() {
					if entry, ok := controller.LatestHistoryEntry(); ok {
						hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
					}
					hub.PublishStatus(controllerStatus(controller))
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		if err := settings.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.PublishReset(resetFromController(controller))
		hub.PublishBoard(boardFromController(controller))
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		settings := controller.Settings()
		controller.Reset(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.PublishReset(resetFromController(controller))
		hub.PublishBoard(boardFromController(controller))
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
			controller.ResetForConfigChange()
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			if err := settings.Validate(); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			if err := controller.UpdateSettings(settings, false); err != nil {
				writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
		}
		hub.PublishSettings(settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		})
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(Move{R: payload.R, C: payload.C})
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
		}
		hub.PublishStatus(controllerStatus(controller))
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		var payload analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		resp, err := runAnalysis(r.Context(), payload)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errNoMoveAvailable) {
				status = http.StatusConflict
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	r.Get("/ws/ghost", func(w http.ResponseWriter, r *http.Request) {
		serveGhostWS(ghostHub, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

// errNoMoveAvailable reports a position with nothing to play: a full or dead
// board, or the disabled depth sentinel in the request.
var errNoMoveAvailable = errors.New("no move available for this position")

// runAnalysis answers one stateless search request: position in, best move
// out. The game loop is not involved, so trainers and scripts can hit this
// concurrently with a live game.
func runAnalysis(ctx context.Context, payload analyzeRequest) (analyzeResponse, error) {
	player, ok := playerFromInt(payload.Player)
	if !ok {
		return analyzeResponse{}, errors.New("invalid player, expected 1 or 2")
	}
	size := payload.BoardSize
	if size == 0 {
		for s := 5; s <= 32; s++ {
			if s*s == len(payload.Board) {
				size = s
				break
			}
		}
	}
	board, err := BoardFromString(payload.Board, size)
	if err != nil {
		return analyzeResponse{}, err
	}

	config := GetConfig()
	if payload.Heuristics != nil {
		config.Heuristics = *payload.Heuristics
	}
	if payload.Depth != nil {
		config.AiDepth = *payload.Depth
	}
	if payload.TimeLimitMs > 0 {
		config.AiTimeLimitMs = payload.TimeLimitMs
	}

	stats := &SearchStats{Start: time.Now()}
	move := NoMove()
	depth := 0
	found := false
	settings := AISearchSettings{
		Player:        player,
		Depth:         config.AiDepth,
		TimeLimitMs:   config.AiTimeLimitMs,
		EnablePruning: config.AiEnablePruning,
		Config:        config,
		Stats:         stats,
		ShouldStop:    func() bool { return ctx.Err() != nil },
	}
	if config.AiDepth > SearchDepthDisabled {
		if opening, isOpening := openingMove(board); isOpening {
			move = opening
			found = true
		} else {
			move, depth, found = FindBestMove(board, settings)
		}
	}
	if config.AiLogSearchStats {
		logSearchStats("analyze", stats, settings)
	}
	if !found {
		return analyzeResponse{}, errNoMoveAvailable
	}

	winningPlayer := 0
	scratch := board.Clone()
	scratch.Set(move.R, move.C, CellFromPlayer(player))
	rules := NewRules(GameSettings{BoardSize: size, WinLength: 5})
	if rules.IsWin(scratch, move) {
		winningPlayer = playerToInt(player)
	}
	return analyzeResponse{
		MoveR:         move.R,
		MoveC:         move.C,
		Depth:         depth,
		WinningPlayer: winningPlayer,
		NodeCount:     stats.Nodes,
		EvalCount:     stats.Evals,
		CpuTimeMs:     time.Since(stats.Start).Milliseconds(),
	}, nil
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
	client.sendJSON(wsMessage{Type: "board", Payload: mustMarshal(boardFromController(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "request_board":
			client.sendJSON(wsMessage{Type: "board", Payload: mustMarshal(boardFromController(controller))})
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		BoardSize:       state.Board.Size(),
		Status:          state.Status.String(),
		History:         historyToDTO(controller.History()),
		WinningLine:     append([]Move(nil), state.WinningLine...),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func boardFromController(controller *GameController) boardPayload {
	state := controller.State()
	return boardPayload{
		Board:      boardToSlice(state.Board),
		NextPlayer: playerToInt(state.ToMove),
		Winner:     winnerFromStatus(state.Status),
		MoveCount:  controller.History().Size(),
		Status:     state.Status.String(),
		AiThinking: controller.AiThinking(),
		History:    historyToDTO(controller.History()),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	}
	if dto.BoardSize > 0 {
		settings.BoardSize = dto.BoardSize
	}
	if dto.WinLength > 0 {
		settings.WinLength = dto.WinLength
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.BlackType == PlayerHuman {
		humanPlayer = 1
	} else if settings.WhiteType == PlayerHuman {
		humanPlayer = 2
	}
	return GameSettingsDTO{
		Mode:        mode,
		HumanPlayer: humanPlayer,
		BoardSize:   settings.BoardSize,
		WinLength:   settings.WinLength,
	}
}

func boardToSlice(board Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for r := 0; r < size; r++ {
		rows[r] = make([]int, size)
		for c := 0; c < size; c++ {
			rows[r][c] = cellToInt(board.At(r, c))
		}
	}
	return rows
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		R:         entry.Move.R,
		C:         entry.Move.C,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Changes: []cellChange{{
			R:     entry.Move.R,
			C:     entry.Move.C,
			Value: playerToInt(entry.Player),
		}},
		Depth: entry.Depth,
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		History:         historyToDTO(controller.History()),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          state.Status.String(),
		BoardSize:       state.Board.Size(),
		WinningLine:     append([]Move(nil), state.WinningLine...),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
