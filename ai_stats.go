package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

type SearchStats struct {
	Nodes          int64
	Evals          int64
	Cutoffs        int64
	CandidateCount int64
	Start          time.Time
	DepthDurations []time.Duration
	CompletedDepth int
}

func logSearchStats(tag string, stats *SearchStats, settings AISearchSettings) {
	if stats == nil {
		return
	}
	elapsed := time.Duration(0)
	if !stats.Start.IsZero() {
		elapsed = time.Since(stats.Start)
	} else {
		for _, d := range stats.DepthDurations {
			elapsed += d
		}
	}
	avgBranch := 0.0
	if stats.Nodes > 0 {
		avgBranch = float64(stats.CandidateCount) / float64(stats.Nodes)
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes) / elapsed.Seconds()
	}
	parts := make([]string, 0, len(stats.DepthDurations))
	for _, d := range stats.DepthDurations {
		parts = append(parts, fmt.Sprintf("%dms", d.Milliseconds()))
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf("[ai:%s] t=%dms depth=%d completed=%d nodes=%d nps=%.0f evals=%d cutoffs=%d avg_branch=%.2f mem_alloc=%s mem_sys=%s depth_times=[%s]\n",
		tag,
		elapsed.Milliseconds(),
		settings.Depth,
		stats.CompletedDepth,
		stats.Nodes,
		nps,
		stats.Evals,
		stats.Cutoffs,
		avgBranch,
		formatBytes(mem.Alloc),
		formatBytes(mem.Sys),
		strings.Join(parts, ","),
	)
}

func formatBytes(n uint64) string {
	const (
		kb = 1 << (10 * 1)
		mb = 1 << (10 * 2)
		gb = 1 << (10 * 3)
		tb = 1 << (10 * 4)
	)
	switch {
	case n >= tb:
		return fmt.Sprintf("%.2f TB", float64(n)/float64(tb))
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gb))
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.2f kB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
