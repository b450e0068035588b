package domain

import (
	"sort"
)

// LatencySummary holds descriptive statistics over a set of response times
// in minutes. All values are raw; rounding for presentation happens at the
// API layer.
type LatencySummary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	P90       float64 `json:"p90"`
	WithinSLA int     `json:"within_sla"`
	SLARate   float64 `json:"sla_rate"`
}

// Summarize computes count, mean, median, p90 and SLA compliance over the
// given response times. An empty input yields the zero summary; no
// statistic ever divides by zero.
func Summarize(minutes []float64, slaMinutes int) LatencySummary {
	n := len(minutes)
	if n == 0 {
		return LatencySummary{}
	}

	sorted := make([]float64, n)
	copy(sorted, minutes)
	sort.Float64s(sorted)

	var sum float64
	withinSLA := 0
	threshold := float64(slaMinutes)
	for _, m := range sorted {
		sum += m
		if m <= threshold {
			withinSLA++
		}
	}

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	p90Index := int(float64(n) * 0.9)
	if p90Index >= n {
		p90Index = n - 1
	}

	return LatencySummary{
		Count:     n,
		Mean:      sum / float64(n),
		Median:    median,
		P90:       sorted[p90Index],
		WithinSLA: withinSLA,
		SLARate:   float64(withinSLA) / float64(n) * 100,
	}
}

// AggregatePairs reduces response pairs into one summary per responsible
// user plus an overall summary across all pairs.
func AggregatePairs(pairs []ResponsePair, slaMinutes int) (map[int64]LatencySummary, LatencySummary) {
	byUser := make(map[int64][]float64)
	all := make([]float64, 0, len(pairs))

	for _, pair := range pairs {
		byUser[pair.ResponsibleUserID] = append(byUser[pair.ResponsibleUserID], pair.ResponseMinutes)
		all = append(all, pair.ResponseMinutes)
	}

	perUser := make(map[int64]LatencySummary, len(byUser))
	for userID, minutes := range byUser {
		perUser[userID] = Summarize(minutes, slaMinutes)
	}

	return perUser, Summarize(all, slaMinutes)
}
