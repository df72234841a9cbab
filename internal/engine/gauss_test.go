package engine

import (
	"math"
	"testing"
)

func TestGaussianDeterministic(t *testing.T) {
	a := NewGaussian(42)
	b := NewGaussian(42)

	for i := 0; i < 100; i++ {
		va := a.Sample(0, 1)
		vb := b.Sample(0, 1)
		if va != vb {
			t.Fatalf("draw %d: %v != %v, same seed must give same sequence", i, va, vb)
		}
	}
}

func TestGaussianMoments(t *testing.T) {
	g := NewGaussian(7)

	const n = 200000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := g.Sample(0, 1)
		sum += v
		sumSq += v * v
	}

	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean = %v, want ~0", mean)
	}
	if math.Abs(variance-1) > 0.02 {
		t.Errorf("variance = %v, want ~1", variance)
	}
}

func TestGaussianShiftScale(t *testing.T) {
	g := NewGaussian(7)

	const n = 100000
	var sum float64
	for i := 0; i < n; i++ {
		sum += g.Sample(5, 0.5)
	}

	mean := sum / n
	if math.Abs(mean-5) > 0.02 {
		t.Errorf("mean = %v, want ~5", mean)
	}
}

func TestGaussianFinite(t *testing.T) {
	g := NewGaussian(1)
	for i := 0; i < 10000; i++ {
		v := g.Sample(0, 1)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("draw %d is not finite: %v", i, v)
		}
	}
}
