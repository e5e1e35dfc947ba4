package main

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RunResult 一局模拟的结果
type RunResult struct {
	Seed          int64
	Score         int
	PeopleHit     int
	PeopleAvoided int
	Distance      float64
	Segments      int
	HitBarrier    bool
	Frames        int
}

// Metric 一项指标的统计
type Metric struct {
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	P90    float64
	Max    float64
}

// Summary 多局模拟的汇总
type Summary struct {
	Runs        int
	BarrierEnds int
	Score       Metric
	Distance    Metric
	HitRate     Metric // 每局撞到人数 / (撞到 + 避开)
}

// Summarize 汇总多局结果
func Summarize(results []RunResult) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}

	scores := make([]float64, 0, len(results))
	distances := make([]float64, 0, len(results))
	hitRates := make([]float64, 0, len(results))
	for _, r := range results {
		if r.HitBarrier {
			s.BarrierEnds++
		}
		scores = append(scores, float64(r.Score))
		distances = append(distances, r.Distance)

		total := r.PeopleHit + r.PeopleAvoided
		if total > 0 {
			hitRates = append(hitRates, float64(r.PeopleHit)/float64(total))
		}
	}

	s.Score = describe(scores)
	s.Distance = describe(distances)
	s.HitRate = describe(hitRates)
	return s
}

// describe 计算一组样本的统计量
func describe(values []float64) Metric {
	if len(values) == 0 {
		return Metric{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	m := Metric{
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		m.StdDev = stat.StdDev(sorted, nil)
	}
	return m
}

// Print 输出汇总表
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "runs: %d (ended by barrier: %d)\n", s.Runs, s.BarrierEnds)
	fmt.Fprintf(w, "%-10s %10s %10s %10s %10s %10s %10s\n", "metric", "mean", "stddev", "min", "median", "p90", "max")
	for _, row := range []struct {
		name string
		m    Metric
	}{
		{"score", s.Score},
		{"distance", s.Distance},
		{"hit rate", s.HitRate},
	} {
		fmt.Fprintf(w, "%-10s %10.2f %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			row.name, row.m.Mean, row.m.StdDev, row.m.Min, row.m.Median, row.m.P90, row.m.Max)
	}
}
