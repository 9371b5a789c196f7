package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pkg/profile"
)

// runBench is the offline harness behind the "bench" subcommand: scripted
// positions through FindBestMove (and optionally the exhaustive baseline),
// with a CPU profile toggle for hot-path work.
func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	size := fs.Int("size", 15, "board size")
	depth := fs.Int("depth", 0, "search depth (0 = iterative deepening)")
	timeLimitMs := fs.Int("time", 5500, "time limit in ms for iterative deepening")
	pruning := fs.Bool("pruning", true, "enable alpha-beta pruning")
	exhaustive := fs.Bool("exhaustive", false, "also run the exhaustive baseline at depth 2")
	cpuProfile := fs.Bool("cpuprofile", false, "write a CPU profile")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("[bench] %v", err)
	}

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	config := DefaultConfig()
	for _, position := range benchPositions(*size) {
		stats := &SearchStats{Start: time.Now()}
		settings := AISearchSettings{
			Player:        position.player,
			Depth:         *depth,
			TimeLimitMs:   *timeLimitMs,
			EnablePruning: *pruning,
			Config:        config,
			Stats:         stats,
		}
		move, searchedDepth, ok := FindBestMove(position.board, settings)
		elapsed := time.Since(stats.Start)
		nps := 0.0
		if elapsed > 0 {
			nps = float64(stats.Nodes) / elapsed.Seconds()
		}
		fmt.Printf("[bench] pos=%s move=(%d,%d) ok=%v depth=%d nodes=%d evals=%d cutoffs=%d t=%dms nps=%.0f\n",
			position.name, move.R, move.C, ok, searchedDepth,
			stats.Nodes, stats.Evals, stats.Cutoffs, elapsed.Milliseconds(), nps)

		if *exhaustive {
			start := time.Now()
			exMove, exOK := ExhaustiveSearch(position.board, position.player, 2)
			fmt.Printf("[bench] pos=%s exhaustive move=(%d,%d) ok=%v t=%dms\n",
				position.name, exMove.R, exMove.C, exOK, time.Since(start).Milliseconds())
		}
	}
}

type benchPosition struct {
	name   string
	board  Board
	player PlayerColor
}

func benchPositions(size int) []benchPosition {
	center := size / 2

	opening := NewBoard(size)
	opening.Set(center, center, CellBlack)

	midgame := NewBoard(size)
	stones := [][3]int{
		{center, center, 1}, {center, center + 1, 2}, {center + 1, center, 1},
		{center - 1, center + 1, 2}, {center + 1, center + 1, 1}, {center + 2, center - 1, 2},
		{center - 1, center - 1, 1}, {center - 2, center, 2},
	}
	for _, s := range stones {
		cell := CellBlack
		if s[2] == 2 {
			cell = CellWhite
		}
		midgame.Set(s[0], s[1], cell)
	}

	threat := NewBoard(size)
	for i := 0; i < 4; i++ {
		threat.Set(center, center-2+i, CellBlack)
	}
	threat.Set(center-1, center, CellWhite)
	threat.Set(center+1, center-1, CellWhite)

	return []benchPosition{
		{name: "opening", board: opening, player: PlayerWhite},
		{name: "midgame", board: midgame, player: PlayerWhite},
		{name: "open_four", board: threat, player: PlayerBlack},
	}
}
