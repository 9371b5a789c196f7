package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// The trainer tunes the backend's heuristic weights by self-play. Every move
// of every game is a stateless POST /api/analyze call carrying one side's
// weight set, so matches are independent of the backend's game loop and can
// run concurrently. Elo ratings rank the population within a generation;
// leaders survive and mutate into the next one.

type heuristicConfig struct {
	Open4        int `json:"open_4"`
	Broken4      int `json:"broken_4"`
	Closed4      int `json:"closed_4"`
	Open3        int `json:"open_3"`
	Broken3      int `json:"broken_3"`
	Closed3      int `json:"closed_3"`
	Open2        int `json:"open_2"`
	Broken2      int `json:"broken_2"`
	ForkOpen3    int `json:"fork_open_3"`
	ForkFourPlus int `json:"fork_four_plus"`
}

// weightCeiling keeps mutated weights clear of the backend's winning
// threshold, so no combination of quiet patterns ever reads as a forced win.
const weightCeiling = 9000

// errNoMove maps the backend's 409 on /api/analyze: the position has no
// playable move.
var errNoMove = errors.New("no move available")

type analyzeRequest struct {
	Board       string           `json:"board"`
	BoardSize   int              `json:"board_size"`
	Player      int              `json:"player"`
	Depth       *int             `json:"depth,omitempty"`
	TimeLimitMs int              `json:"time_limit_ms,omitempty"`
	Heuristics  *heuristicConfig `json:"heuristics,omitempty"`
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

type contender struct {
	ID         string          `json:"id"`
	Heuristics heuristicConfig `json:"heuristics"`
	Elo        float64         `json:"elo"`
}

type trainer struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger
	rng     *rand.Rand

	boardSize        int
	searchDepth      int
	populationSize   int
	eliteCount       int
	openingsPerPair  int
	openingPlies     int
	maxPlies         int
	workers          int
	generations      int
	mutationStrength float64
	eloK             float64
	outDir           string

	statusMu    sync.RWMutex
	generation  int
	gamesPlayed int
	champion    contender
}

func main() {
	outDir := getenv("TRAINER_OUT_DIR", "logs")
	logger, closeLog, err := buildLogger(filepath.Join(outDir, "trainer.log"))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	t := &trainer{
		client:           &http.Client{Timeout: 30 * time.Second},
		baseURL:          getenv("BACKEND_URL", "http://localhost:8080"),
		logger:           logger,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		boardSize:        getenvInt("TRAINER_BOARD_SIZE", 15),
		searchDepth:      getenvInt("TRAINER_SEARCH_DEPTH", 4),
		populationSize:   getenvInt("TRAINER_POPULATION_SIZE", 8),
		eliteCount:       getenvInt("TRAINER_ELITE_COUNT", 3),
		openingsPerPair:  getenvInt("TRAINER_OPENINGS_PER_PAIR", 2),
		openingPlies:     getenvInt("TRAINER_OPENING_PLIES", 4),
		maxPlies:         getenvInt("TRAINER_MAX_PLIES", 120),
		workers:          getenvInt("TRAINER_WORKERS", 4),
		generations:      getenvInt("TRAINER_GENERATIONS", 0),
		mutationStrength: getenvFloat("TRAINER_MUTATION_STRENGTH", 0.08),
		eloK:             getenvFloat("TRAINER_ELO_K", 20),
		outDir:           outDir,
	}
	if t.populationSize < 4 {
		t.populationSize = 4
	}
	if t.eliteCount < 1 || t.eliteCount >= t.populationSize {
		t.eliteCount = t.populationSize / 2
	}
	if t.mutationStrength <= 0 || t.mutationStrength >= 1 {
		t.mutationStrength = 0.08
	}

	t.startStatusAPI(getenv("TRAINER_API_ADDR", ":8090"))

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	t.logger.Printf("trainer starting: backend=%s board=%d depth=%d population=%d workers=%d",
		t.baseURL, t.boardSize, t.searchDepth, t.populationSize, t.workers)

	if err := t.waitBackendReady(ctx); err != nil {
		t.logger.Printf("backend never became ready: %v", err)
		os.Exit(1)
	}
	if err := t.run(ctx); err != nil && err != context.Canceled {
		t.logger.Printf("training stopped with error: %v", err)
		os.Exit(1)
	}
	t.logger.Printf("trainer exiting")
}

func (t *trainer) run(ctx context.Context) error {
	population := t.seedPopulation()
	for generation := 1; ; generation++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if t.generations > 0 && generation > t.generations {
			return nil
		}
		t.setStatus(func() {
			t.generation = generation
			t.gamesPlayed = 0
		})

		start := time.Now()
		games, err := t.playGeneration(ctx, generation, population)
		if err != nil {
			return err
		}
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Elo > population[j].Elo
		})
		champion := population[0]
		t.setStatus(func() {
			t.gamesPlayed = games
			t.champion = champion
		})
		if err := t.persistChampion(champion); err != nil {
			t.logger.Printf("failed to persist champion: %v", err)
		}
		t.logger.Printf("generation %d done: games=%d best=%s elo=%.1f t=%s",
			generation, games, champion.ID, champion.Elo, time.Since(start).Round(time.Second))

		population = t.nextGeneration(generation, population)
	}
}

// playGeneration runs a full round robin, openingsPerPair games per color
// split per pairing. Matches run concurrently under a worker limit; every
// match owns a private board, and Elo is applied in schedule order once all
// matches have finished, so concurrency never changes the ratings.
func (t *trainer) playGeneration(ctx context.Context, generation int, population []contender) (int, error) {
	type pairing struct {
		first, second int
		opening       []cellRef
	}

	var schedule []pairing
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			for k := 0; k < t.openingsPerPair; k++ {
				schedule = append(schedule, pairing{
					first:   i,
					second:  j,
					opening: t.buildOpening(int64(generation)*1000 + int64(len(schedule))),
				})
			}
		}
	}

	results := make([]float64, len(schedule))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(t.workers)
	for idx, p := range schedule {
		idx, p := idx, p
		group.Go(func() error {
			score, err := t.playPair(groupCtx, population[p.first].Heuristics, population[p.second].Heuristics, p.opening)
			if err != nil {
				return err
			}
			results[idx] = score
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	for idx, p := range schedule {
		t.updateElo(&population[p.first], &population[p.second], results[idx])
	}
	return len(schedule) * 2, nil
}

// playPair plays one game with first as black and one with colors swapped,
// returning first's points in [0, 1].
func (t *trainer) playPair(ctx context.Context, first, second heuristicConfig, opening []cellRef) (float64, error) {
	points := 0.0
	for _, firstBlack := range []bool{true, false} {
		black, white := first, second
		if !firstBlack {
			black, white = second, first
		}
		winner, err := t.playGame(ctx, black, white, opening)
		if err != nil {
			return 0, err
		}
		switch {
		case winner == 0:
			points += 0.5
		case (winner == 1) == firstBlack:
			points += 1.0
		}
	}
	return points / 2.0, nil
}

type cellRef struct {
	R int
	C int
}

type matchBoard struct {
	size  int
	cells []byte
}

func newMatchBoard(size int) *matchBoard {
	cells := bytes.Repeat([]byte{'0'}, size*size)
	return &matchBoard{size: size, cells: cells}
}

func (b *matchBoard) place(r, c, player int) bool {
	if r < 0 || c < 0 || r >= b.size || c >= b.size {
		return false
	}
	idx := r*b.size + c
	if b.cells[idx] != '0' {
		return false
	}
	b.cells[idx] = byte('0' + player)
	return true
}

func (b *matchBoard) encoded() string {
	return string(b.cells)
}

// playGame drives one full game through the analyze endpoint. Returns the
// winner (1 black, 2 white, 0 draw/aborted).
func (t *trainer) playGame(ctx context.Context, black, white heuristicConfig, opening []cellRef) (int, error) {
	board := newMatchBoard(t.boardSize)
	player := 1
	for _, cell := range opening {
		if board.place(cell.R, cell.C, player) {
			player = 3 - player
		}
	}

	for ply := 0; ply < t.maxPlies; ply++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		weights := black
		if player == 2 {
			weights = white
		}
		depth := t.searchDepth
		resp, err := t.analyze(ctx, analyzeRequest{
			Board:      board.encoded(),
			BoardSize:  t.boardSize,
			Player:     player,
			Depth:      &depth,
			Heuristics: &weights,
		})
		if errors.Is(err, errNoMove) {
			// The backend declared the position dead.
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if !board.place(resp.MoveR, resp.MoveC, player) {
			return 0, nil
		}
		if resp.WinningPlayer == player {
			return player, nil
		}
		player = 3 - player
	}
	return 0, nil
}

func (t *trainer) seedPopulation() []contender {
	base, err := t.fetchBackendHeuristics()
	if err != nil {
		t.logger.Printf("using built-in seed weights, backend config unavailable: %v", err)
		base = defaultHeuristics()
	}
	population := make([]contender, 0, t.populationSize)
	population = append(population, contender{ID: "seed", Heuristics: base, Elo: 1500})
	for i := 1; i < t.populationSize; i++ {
		population = append(population, contender{
			ID:         fmt.Sprintf("g0-m%d", i),
			Heuristics: t.mutate(base),
			Elo:        1500,
		})
	}
	return population
}

// nextGeneration keeps the top eliteCount weight sets and refills the rest
// with mutations of randomly chosen elites. Ratings reset so each generation
// is judged on its own games.
func (t *trainer) nextGeneration(generation int, ranked []contender) []contender {
	next := make([]contender, 0, t.populationSize)
	for i := 0; i < t.eliteCount && i < len(ranked); i++ {
		next = append(next, contender{ID: ranked[i].ID, Heuristics: ranked[i].Heuristics, Elo: 1500})
	}
	for len(next) < t.populationSize {
		parent := next[t.rng.Intn(t.eliteCount)]
		next = append(next, contender{
			ID:         fmt.Sprintf("g%d-m%d", generation, len(next)),
			Heuristics: t.mutate(parent.Heuristics),
			Elo:        1500,
		})
	}
	return next
}

func (t *trainer) mutate(base heuristicConfig) heuristicConfig {
	scale := func(v int) int {
		factor := 1 + (t.rng.Float64()*2-1)*t.mutationStrength
		next := int(math.Round(float64(v) * factor))
		if next < 1 {
			next = 1
		}
		if next > weightCeiling {
			next = weightCeiling
		}
		return next
	}
	out := base
	out.Open4 = scale(out.Open4)
	out.Broken4 = scale(out.Broken4)
	out.Closed4 = scale(out.Closed4)
	out.Open3 = scale(out.Open3)
	out.Broken3 = scale(out.Broken3)
	out.Closed3 = scale(out.Closed3)
	out.Open2 = scale(out.Open2)
	out.Broken2 = scale(out.Broken2)
	out.ForkOpen3 = scale(out.ForkOpen3)
	out.ForkFourPlus = scale(out.ForkFourPlus)
	return out
}

func (t *trainer) updateElo(a, b *contender, resultForA float64) {
	expectedA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	a.Elo += t.eloK * (resultForA - expectedA)
	b.Elo += t.eloK * ((1.0 - resultForA) - (1.0 - expectedA))
}

// buildOpening scatters a few stones near the center so games diverge
// instead of replaying one deterministic line.
func (t *trainer) buildOpening(salt int64) []cellRef {
	rng := rand.New(rand.NewSource(int64(t.boardSize)*131 + salt))
	center := t.boardSize / 2
	used := map[cellRef]bool{}
	opening := make([]cellRef, 0, t.openingPlies)
	for len(opening) < t.openingPlies {
		cell := cellRef{
			R: center + rng.Intn(5) - 2,
			C: center + rng.Intn(5) - 2,
		}
		if cell.R < 0 || cell.C < 0 || cell.R >= t.boardSize || cell.C >= t.boardSize || used[cell] {
			continue
		}
		used[cell] = true
		opening = append(opening, cell)
	}
	return opening
}

func (t *trainer) persistChampion(champion contender) error {
	if err := os.MkdirAll(t.outDir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(champion, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	path := filepath.Join(t.outDir, "champion_heuristics.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func defaultHeuristics() heuristicConfig {
	return heuristicConfig{
		Open4:        4800,
		Broken4:      3200,
		Closed4:      1000,
		Open3:        720,
		Broken3:      640,
		Closed3:      150,
		Open2:        80,
		Broken2:      60,
		ForkOpen3:    2000,
		ForkFourPlus: 4000,
	}
}

func (t *trainer) startStatusAPI(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trainer/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	mux.HandleFunc("/api/trainer/status", func(w http.ResponseWriter, r *http.Request) {
		t.statusMu.RLock()
		payload := map[string]any{
			"generation":   t.generation,
			"games_played": t.gamesPlayed,
			"champion":     t.champion,
		}
		t.statusMu.RUnlock()
		writeJSON(w, http.StatusOK, payload)
	})
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.logger.Printf("status api error: %v", err)
		}
	}()
}

func (t *trainer) setStatus(mutator func()) {
	t.statusMu.Lock()
	mutator()
	t.statusMu.Unlock()
}

func (t *trainer) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/api/ping", nil)
		if err != nil {
			return err
		}
		resp, err := t.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("backend not reachable within 60s")
}

func (t *trainer) fetchBackendHeuristics() (heuristicConfig, error) {
	var status struct {
		Config struct {
			Heuristics heuristicConfig `json:"heuristics"`
		} `json:"config"`
	}
	if err := t.getJSON("/api/status", &status); err != nil {
		return heuristicConfig{}, err
	}
	if status.Config.Heuristics == (heuristicConfig{}) {
		return heuristicConfig{}, fmt.Errorf("backend returned empty heuristics")
	}
	return status.Config.Heuristics, nil
}

func (t *trainer) analyze(ctx context.Context, payload analyzeRequest) (analyzeResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return analyzeResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return analyzeResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return analyzeResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return analyzeResponse{}, errNoMove
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return analyzeResponse{}, fmt.Errorf("POST /api/analyze -> %d: %s", resp.StatusCode, string(raw))
	}
	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return analyzeResponse{}, err
	}
	return out, nil
}

func (t *trainer) getJSON(path string, out any) error {
	resp, err := t.client.Get(t.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func buildLogger(path string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags)
	return logger, func() { _ = f.Close() }, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}
