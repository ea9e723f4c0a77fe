package utils

import (
	"testing"

	"tower-siege/internal/defs"
)

type fixedRandom struct{ n int }

func (f fixedRandom) Intn(int) int     { return f.n }
func (f fixedRandom) Float64() float64 { return 0 }

func TestChooseWeighted(t *testing.T) {
	entries := []defs.SpawnEntry{
		{Type: defs.EnemyNormal, Weight: 5},
		{Type: defs.EnemyFast, Weight: 3},
		{Type: defs.EnemyTank, Weight: 2},
	}
	tests := []struct {
		roll int
		want defs.EnemyType
	}{
		{0, defs.EnemyNormal},
		{4, defs.EnemyNormal},
		{5, defs.EnemyFast},
		{7, defs.EnemyFast},
		{8, defs.EnemyTank},
		{9, defs.EnemyTank},
	}
	for _, tc := range tests {
		if got := ChooseWeighted(fixedRandom{tc.roll}, entries); got != tc.want {
			t.Errorf("ChooseWeighted(roll=%d) = %q, want %q", tc.roll, got, tc.want)
		}
	}
	if got := ChooseWeighted(fixedRandom{}, nil); got != "" {
		t.Errorf("ChooseWeighted(nil) = %q, want empty", got)
	}
}

func TestPRNGServiceDeterministic(t *testing.T) {
	a := NewPRNGService(42)
	b := NewPRNGService(42)
	for i := 0; i < 10; i++ {
		if a.Intn(100) != b.Intn(100) {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
