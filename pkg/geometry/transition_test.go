// Transition geometry tests
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package geometry

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"scswind/pkg/coilmap"
)

// Radius of a representative mid-coil turn.
const testRadius = 800.0

func TestOddLayerWindowEndpoints(t *testing.T) {
	if adj := TransitionAdjustment(testRadius, 0, false); !scalar.EqualWithinAbs(adj, 0, 1e-9) {
		t.Errorf("odd entry adjustment = %v; want 0", adj)
	}
	adj := TransitionAdjustment(testRadius, ArcDeg, false)
	if !scalar.EqualWithinAbs(adj, coilmap.TurnIndexNominal, 1e-9) {
		t.Errorf("odd exit adjustment = %v; want full turn index %v", adj, coilmap.TurnIndexNominal)
	}
}

func TestEvenLayerWindowEndpoints(t *testing.T) {
	if adj := TransitionAdjustment(testRadius, 0, true); !scalar.EqualWithinAbs(adj, 0, 1e-9) {
		t.Errorf("even entry adjustment = %v; want 0", adj)
	}
	adj := TransitionAdjustment(testRadius, ArcDeg, true)
	if !scalar.EqualWithinAbs(adj, coilmap.TurnIndexNominal, 1e-9) {
		t.Errorf("even exit adjustment = %v; want full turn index %v", adj, coilmap.TurnIndexNominal)
	}
}

func TestOutsideWindowIsZero(t *testing.T) {
	for _, degPast := range []float64{-1, ArcDeg + 0.01, 60} {
		if adj := TransitionAdjustment(testRadius, degPast, false); adj != 0 {
			t.Errorf("odd adjustment at %v deg = %v; want 0 outside window", degPast, adj)
		}
		if adj := TransitionAdjustment(testRadius, degPast, true); adj != 0 {
			t.Errorf("even adjustment at %v deg = %v; want 0 outside window", degPast, adj)
		}
	}
}

// The arc and straight segments must meet without a step at the
// crossover angle.
func TestContinuityAtCrossover(t *testing.T) {
	const eps = 1e-6

	for _, even := range []bool{false, true} {
		inner := testRadius - coilmap.TurnIndexNominal
		if even {
			inner = testRadius
		}
		cross := crossoverDeg(inner, even)
		if cross <= 0 || cross >= ArcDeg {
			t.Fatalf("crossover %v outside window (even=%v)", cross, even)
		}

		below := TransitionAdjustment(testRadius, cross-eps, even)
		above := TransitionAdjustment(testRadius, cross+eps, even)
		if !scalar.EqualWithinAbs(below, above, 0.5) {
			t.Errorf("even=%v: adjustment steps at crossover: %v vs %v", even, below, above)
		}
	}
}

func TestAdjustmentMonotone(t *testing.T) {
	for _, even := range []bool{false, true} {
		prev := -1.0
		for degPast := 0.0; degPast <= ArcDeg; degPast += 0.5 {
			adj := TransitionAdjustment(testRadius, degPast, even)
			if adj < prev-0.5 {
				t.Fatalf("even=%v: adjustment not monotone at %v deg: %v after %v",
					even, degPast, adj, prev)
			}
			prev = adj
		}
	}
}
