// ABOUTME: Conversion funnel calculator
// ABOUTME: Computes per-stage conversion and drop-off over an ordered stage list
package analytics

// FunnelInput is one stage's name and population, in funnel order.
type FunnelInput struct {
	Name  string
	Count int
}

// FunnelStage is one computed stage of a conversion funnel.
type FunnelStage struct {
	Stage          string  `json:"stage"`
	Count          int     `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
	DropOffRate    float64 `json:"drop_off_rate"`
}

// BuildFunnel computes conversion and drop-off for each stage relative
// to the previous one. Stage 0 is fixed at 100% conversion, 0% drop-off.
// Rates are only guarded against zero denominators; a stage larger than
// its predecessor yields conversion above 100, which is a data-quality
// signal the funnel passes through untouched. The funnel holds no state
// and is recomputed fully on every call.
func BuildFunnel(stages []FunnelInput) []FunnelStage {
	out := make([]FunnelStage, 0, len(stages))
	for i, s := range stages {
		conversion := 100.0
		if i > 0 {
			conversion = SafeRate(float64(s.Count), float64(stages[i-1].Count))
		}
		out = append(out, FunnelStage{
			Stage:          s.Name,
			Count:          s.Count,
			ConversionRate: conversion,
			DropOffRate:    100 - conversion,
		})
	}
	return out
}
