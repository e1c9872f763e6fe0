package linalg

import (
	"math"
	"testing"
)

func TestDot(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	got := Dot(a, b)
	want := float64(1*4 + 2*5 + 3*6)
	if got != want {
		t.Errorf("Dot() = %v, want %v", got, want)
	}
}

func TestAsum(t *testing.T) {
	a := []float64{-1, 2, -3}
	if got := Asum(a); got != 6 {
		t.Errorf("Asum() = %v, want 6", got)
	}
}

func TestNrm2(t *testing.T) {
	a := []float64{3, 4}
	if got := Nrm2(a); math.Abs(got-5) > 1e-9 {
		t.Errorf("Nrm2() = %v, want 5", got)
	}
}

func TestAxpby(t *testing.T) {
	x := []float64{1, 1, 1}
	y := []float64{2, 2, 2}

	Axpby(2, x, 1, y)

	want := []float64{4, 4, 4}
	for i := range y {
		if y[i] != want[i] {
			t.Errorf("Axpby() y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestRotate2Identity(t *testing.T) {
	rx, ry := Rotate2(3, 4, 1, 0)
	if rx != 3 || ry != 4 {
		t.Errorf("Rotate2 with cos=1 sin=0 should be identity, got (%v, %v)", rx, ry)
	}
}

func TestRotate2QuarterTurn(t *testing.T) {
	rx, ry := Rotate2(1, 0, 0, 1)
	if math.Abs(rx-0) > 1e-9 || math.Abs(ry-1) > 1e-9 {
		t.Errorf("Rotate2 90deg turn = (%v, %v), want (0, 1)", rx, ry)
	}
}

func TestActiveKernelBackendSet(t *testing.T) {
	if ActiveKernelBackend != KernelScalar && ActiveKernelBackend != KernelAVX2 {
		t.Errorf("ActiveKernelBackend has unexpected value: %v", ActiveKernelBackend)
	}
}
