// ABOUTME: Tests for the conversion funnel calculator
// ABOUTME: Covers per-stage rates, zero-count stages, and the fixed first stage
package analytics

import "testing"

func TestBuildFunnel(t *testing.T) {
	stages := BuildFunnel([]FunnelInput{
		{Name: "Leads", Count: 100},
		{Name: "Customers", Count: 40},
		{Name: "Deals", Count: 10},
		{Name: "Won", Count: 4},
	})

	if len(stages) != 4 {
		t.Fatalf("Expected 4 stages, got %d", len(stages))
	}

	wantConv := []float64{100, 40, 25, 40}
	wantDrop := []float64{0, 60, 75, 60}
	for i, s := range stages {
		if s.ConversionRate != wantConv[i] {
			t.Errorf("Stage %s: expected conversion %v, got %v", s.Stage, wantConv[i], s.ConversionRate)
		}
		if s.DropOffRate != wantDrop[i] {
			t.Errorf("Stage %s: expected drop-off %v, got %v", s.Stage, wantDrop[i], s.DropOffRate)
		}
	}
}

func TestBuildFunnelZeroStage(t *testing.T) {
	stages := BuildFunnel([]FunnelInput{
		{Name: "Leads", Count: 100},
		{Name: "Customers", Count: 0},
		{Name: "Deals", Count: 5},
	})

	if stages[1].ConversionRate != 0 || stages[1].DropOffRate != 100 {
		t.Errorf("Empty stage: expected 0%%/100%%, got %v/%v", stages[1].ConversionRate, stages[1].DropOffRate)
	}
	// zero predecessor guards the division, not the data
	if stages[2].ConversionRate != 0 {
		t.Errorf("Stage after empty stage: expected conversion 0, got %v", stages[2].ConversionRate)
	}
}

func TestBuildFunnelFirstStageFixed(t *testing.T) {
	stages := BuildFunnel([]FunnelInput{{Name: "Leads", Count: 0}})
	if stages[0].ConversionRate != 100 || stages[0].DropOffRate != 0 {
		t.Errorf("First stage is always 100%%/0%%, got %v/%v", stages[0].ConversionRate, stages[0].DropOffRate)
	}
}

func TestBuildFunnelEmpty(t *testing.T) {
	if got := BuildFunnel(nil); len(got) != 0 {
		t.Errorf("Expected empty funnel, got %d stages", len(got))
	}
}

func TestBuildFunnelGrowingStage(t *testing.T) {
	stages := BuildFunnel([]FunnelInput{
		{Name: "A", Count: 10},
		{Name: "B", Count: 15},
	})
	if stages[1].ConversionRate != 150 {
		t.Errorf("Growing stage passes through above 100, got %v", stages[1].ConversionRate)
	}
	if stages[1].DropOffRate != -50 {
		t.Errorf("Drop-off stays the complement, got %v", stages[1].DropOffRate)
	}
}
