package dynamo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	if diff := cmp.Diff(Vector{5, 7, 9}, a.Add(b)); diff != "" {
		t.Errorf("add mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Vector{-3, -3, -3}, a.Sub(b)); diff != "" {
		t.Errorf("sub mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Vector{2, 4, 6}, a.Scale(2)); diff != "" {
		t.Errorf("scale mismatch (-want +got):\n%s", diff)
	}
}

func TestVectorNoAliasing(t *testing.T) {
	a := Vector{1, 2}
	sum := a.Add(Vector{1, 1})
	sum[0] = 100

	if a[0] != 1 {
		t.Errorf("add mutated receiver: %v", a)
	}

	c := a.Clone()
	c[1] = -1
	if a[1] != 2 {
		t.Errorf("clone shares storage: %v", a)
	}
}

func TestVectorNorm(t *testing.T) {
	if n := (Vector{3, 4}).Norm(); n != 5 {
		t.Errorf("expected norm 5, got %f", n)
	}
	if n := (Vector{-2}).Norm(); n != 2 {
		t.Errorf("expected norm 2, got %f", n)
	}
}

func TestVectorIsValid(t *testing.T) {
	if !(Vector{1, 2}).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vector{1, math.NaN()}).IsValid() {
		t.Error("NaN not detected")
	}
	if (Vector{math.Inf(-1)}).IsValid() {
		t.Error("Inf not detected")
	}
}
