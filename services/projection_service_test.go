package services

import (
	"reflect"
	"testing"
)

func TestMatchedQuantity(t *testing.T) {
	tests := []struct {
		name               string
		projected, ordered int
		want               int
	}{
		{"ordered below projection", 1000, 600, 600},
		{"ordered meets projection", 1000, 1000, 1000},
		{"ordered exceeds projection", 1000, 1400, 1000},
		{"nothing ordered", 1000, 0, 0},
		{"nothing projected", 0, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchedQuantity(tt.projected, tt.ordered); got != tt.want {
				t.Errorf("MatchedQuantity(%d, %d) = %d, want %d", tt.projected, tt.ordered, got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name               string
		matched, projected int
		want               float64
	}{
		{"partial match", 600, 1000, 0.6},
		{"full match", 1000, 1000, 1},
		{"no match", 0, 1000, 0},
		{"zero projected", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accuracy(tt.matched, tt.projected); got != tt.want {
				t.Errorf("Accuracy(%d, %d) = %v, want %v", tt.matched, tt.projected, got, tt.want)
			}
		})
	}
}

func TestComputeDeltas(t *testing.T) {
	points := []DriftPoint{
		{BatchID: "a1", Quantity: 1000},
		{BatchID: "b2", Quantity: 1200},
		{BatchID: "c3", Quantity: 900},
		{BatchID: "d4", Quantity: 900},
	}

	got := ComputeDeltas(points)
	want := []int{200, -300, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeDeltas() = %v, want %v", got, want)
	}
}

func TestComputeDeltas_TooFewPoints(t *testing.T) {
	if got := ComputeDeltas(nil); got != nil {
		t.Errorf("ComputeDeltas(nil) = %v, want nil", got)
	}
	if got := ComputeDeltas([]DriftPoint{{BatchID: "a1", Quantity: 5}}); got != nil {
		t.Errorf("ComputeDeltas(single point) = %v, want nil", got)
	}
}
