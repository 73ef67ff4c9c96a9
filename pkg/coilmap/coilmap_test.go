// Coil map tests
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package coilmap

import (
	"testing"

	"scswind/pkg/errors"
)

// testMap builds a small map spanning a layer boundary. The joggle at
// 150 sits on turn 1 (short window), the joggle at 700 on the final
// turn (long window).
func testMap(t *testing.T) *Map {
	t.Helper()
	rows := []Row{
		{Angle: 100, FeatureCode: FeatureLocalZero, HexQuad: 1, Layer: 1, Turn: 1, Azimuth: 30, Radius: 800},
		{Angle: 150, FeatureCode: FeatureJoggle, HexQuad: 1, Layer: 1, Turn: 1, Azimuth: 90, Radius: 800},
		{Angle: 400, FeatureCode: FeatureTransition, HexQuad: 1, Layer: 1, Turn: 2, Azimuth: 150, Radius: 810},
		{Angle: 500, FeatureCode: FeatureOutlet, HexQuad: 1, Layer: 1, Turn: 2, Azimuth: 210, Radius: 810},
		{Angle: 700, FeatureCode: FeatureJoggle, HexQuad: 1, Layer: 1, Turn: TurnsPerLayer, Azimuth: 270, Radius: 850},
		{Angle: 900, FeatureCode: FeatureWindingLock, HexQuad: 1, Layer: 2, Turn: TurnsPerLayer, Azimuth: 330, Radius: 850},
	}
	m, err := New(rows, []float64{150, 700}, []float64{100},
		map[int]float64{1: 400}, []int{4, 7, 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty row set")
	} else if !errors.IsCoilMap(err) {
		t.Errorf("expected coil map error, got %v", err)
	}

	rows := []Row{{Angle: 200}, {Angle: 200}}
	if _, err := New(rows, nil, nil, nil, nil); err == nil {
		t.Error("expected error for non-increasing angles")
	}
}

func TestFloorBasics(t *testing.T) {
	m := testMap(t)

	row, ok := m.Floor(450)
	if !ok || row.Angle != 400 {
		t.Errorf("Floor(450) = %v, %v; want row at 400", row.Angle, ok)
	}

	row, ok = m.Floor(400)
	if !ok || row.Angle != 400 {
		t.Errorf("Floor(400) = %v, %v; want exact row at 400", row.Angle, ok)
	}

	if _, ok := m.Floor(99); ok {
		t.Error("Floor before first row should report no feature")
	}
}

// A floor query at exactly the final row's angle reports no feature.
// Downstream position tables were built against this behavior, so it is
// pinned here.
func TestFloorAtFinalRowReportsNoFeature(t *testing.T) {
	m := testMap(t)

	if _, ok := m.Floor(m.LastAngle()); ok {
		t.Error("Floor at exactly the final row angle should report no feature")
	}

	row, ok := m.Floor(m.LastAngle() + 1)
	if !ok || row.Angle != m.LastAngle() {
		t.Errorf("Floor past the final row = %v, %v; want the final row", row.Angle, ok)
	}
}

func TestNextIsStrictlyAfter(t *testing.T) {
	m := testMap(t)

	row, ok := m.Next(400)
	if !ok || row.Angle != 500 {
		t.Errorf("Next(400) = %v, %v; want 500", row.Angle, ok)
	}
	row, ok = m.Next(450)
	if !ok || row.Angle != 500 {
		t.Errorf("Next(450) = %v, %v; want 500", row.Angle, ok)
	}
	if _, ok := m.Next(900); ok {
		t.Error("Next past the final row should report no feature")
	}
}

func TestAt(t *testing.T) {
	m := testMap(t)

	row, ok := m.At(500)
	if !ok || row.FeatureCode != FeatureOutlet {
		t.Errorf("At(500) = %v, %v; want outlet row", row.FeatureCode, ok)
	}
	if _, ok := m.At(501); ok {
		t.Error("At should miss on a non-feature angle")
	}
}

func TestPrevAngle(t *testing.T) {
	m := testMap(t)

	a, ok := m.PrevAngle(400)
	if !ok || a != 150 {
		t.Errorf("PrevAngle(400) = %v, %v; want 150", a, ok)
	}
	a, ok = m.PrevAngle(450)
	if !ok || a != 400 {
		t.Errorf("PrevAngle(450) = %v, %v; want 400", a, ok)
	}
	if _, ok := m.PrevAngle(100); ok {
		t.Error("PrevAngle at the first row should report no feature")
	}
	if _, ok := m.PrevAngle(1000); ok {
		t.Error("PrevAngle past the final row should report no feature")
	}
}

func TestFloorWithNext(t *testing.T) {
	m := testMap(t)

	cur, next, curOK, nextOK := m.FloorWithNext(450)
	if !curOK || cur.Angle != 400 || !nextOK || next.Angle != 500 {
		t.Errorf("FloorWithNext(450) = %v/%v, %v/%v", cur.Angle, next.Angle, curOK, nextOK)
	}

	cur, _, curOK, nextOK = m.FloorWithNext(950)
	if !curOK || cur.Angle != 900 || nextOK {
		t.Errorf("FloorWithNext past final row = %v, %v/%v; want final row and no next",
			cur.Angle, curOK, nextOK)
	}
}

func TestJoggleFloorCeil(t *testing.T) {
	m := testMap(t)

	a, ok := m.JoggleFloor(600)
	if !ok || a != 150 {
		t.Errorf("JoggleFloor(600) = %v, %v; want 150", a, ok)
	}
	if _, ok := m.JoggleFloor(140); ok {
		t.Error("JoggleFloor before the first joggle should miss")
	}

	a, ok = m.JoggleCeil(600)
	if !ok || a != 700 {
		t.Errorf("JoggleCeil(600) = %v, %v; want 700", a, ok)
	}
	a, ok = m.JoggleCeil(700)
	if !ok || a != 700 {
		t.Errorf("JoggleCeil(700) = %v, %v; want 700 (at-or-after)", a, ok)
	}
	if _, ok := m.JoggleCeil(701); ok {
		t.Error("JoggleCeil past the last joggle should miss")
	}
}

func TestJoggleWindow(t *testing.T) {
	m := testMap(t)

	if w := m.JoggleWindow(160); w != JoggleLengthMin {
		t.Errorf("turn 1 window = %v; want %v", w, JoggleLengthMin)
	}
	if w := m.JoggleWindow(710); w != JoggleLengthMax {
		t.Errorf("final turn window = %v; want %v", w, JoggleLengthMax)
	}
	if w := m.JoggleWindow(450); w != 0 {
		t.Errorf("mid-layer window = %v; want 0", w)
	}
}

func TestHqpStartFloor(t *testing.T) {
	m := testMap(t)

	a, ok := m.HqpStartFloor(500)
	if !ok || a != 100 {
		t.Errorf("HqpStartFloor(500) = %v, %v; want 100", a, ok)
	}
	if _, ok := m.HqpStartFloor(50); ok {
		t.Error("HqpStartFloor before the first start should miss")
	}
}

func TestInTransition(t *testing.T) {
	m := testMap(t)

	in, degPast, ok := m.InTransition(410)
	if !ok || !in || degPast != 10 {
		t.Errorf("InTransition(410) = %v, %v, %v; want in at 10 deg", in, degPast, ok)
	}

	in, degPast, ok = m.InTransition(430)
	if !ok || in {
		t.Errorf("InTransition(430) = %v, %v; want out (past the arc)", in, ok)
	}
	if degPast != 30 {
		t.Errorf("degPast = %v; want 30 even outside the window", degPast)
	}

	in, _, ok = m.InTransition(160)
	if !ok || in {
		t.Errorf("InTransition over a joggle = %v, %v; want out", in, ok)
	}
}

func TestInJoggle(t *testing.T) {
	m := testMap(t)

	in, ok := m.InJoggle(160)
	if !ok || !in {
		t.Errorf("InJoggle(160) = %v, %v; want in (10 deg into a turn-1 window)", in, ok)
	}
	in, ok = m.InJoggle(170)
	if !ok || in {
		t.Errorf("InJoggle(170) = %v, %v; want out (past the turn-1 window)", in, ok)
	}
	in, ok = m.InJoggle(725)
	if !ok || !in {
		t.Errorf("InJoggle(725) = %v, %v; want in (final-turn window)", in, ok)
	}
}

func TestIsLastTurn(t *testing.T) {
	cases := []struct {
		turn   int
		isEven bool
		want   bool
	}{
		{1, true, true},
		{TurnsPerLayer, true, false},
		{TurnsPerLayer, false, true},
		{1, false, false},
		{7, true, false},
		{7, false, false},
	}
	for _, c := range cases {
		if got := IsLastTurn(c.turn, c.isEven); got != c.want {
			t.Errorf("IsLastTurn(%d, even=%v) = %v; want %v", c.turn, c.isEven, got, c.want)
		}
	}
}

func TestIsLastHqLayer(t *testing.T) {
	for _, layer := range []int{6, 12, 18, 22, 28, 34, 40, 41} {
		if !IsLastHqLayer(layer) {
			t.Errorf("layer %d should end a hex/quad pancake", layer)
		}
	}
	for _, layer := range []int{1, 5, 11, 24, 39} {
		if IsLastHqLayer(layer) {
			t.Errorf("layer %d should not end a hex/quad pancake", layer)
		}
	}
}

func TestIsLocalZeroAndParity(t *testing.T) {
	m := testMap(t)

	isLZ, ok := m.IsLocalZero(120)
	if !ok || !isLZ {
		t.Errorf("IsLocalZero(120) = %v, %v; want local zero", isLZ, ok)
	}
	isLZ, ok = m.IsLocalZero(450)
	if !ok || isLZ {
		t.Errorf("IsLocalZero(450) = %v, %v; want not local zero", isLZ, ok)
	}

	even, ok := m.IsEvenLayer(450)
	if !ok || even {
		t.Errorf("IsEvenLayer(450) = %v, %v; layer 1 is odd", even, ok)
	}
	odd, ok := m.IsOddLayer(950)
	if !ok || odd {
		t.Errorf("IsOddLayer(950) = %v, %v; layer 2 is even", odd, ok)
	}
}

func TestLastMoveOfLayer(t *testing.T) {
	m := testMap(t)

	// Next column move from 680 passes the layer-end joggle window.
	last, jAngle, inWindow := m.LastMoveOfLayer(680)
	if !last || jAngle != 700 || inWindow {
		t.Errorf("LastMoveOfLayer(680) = %v, %v, %v; want last at joggle 700", last, jAngle, inWindow)
	}

	// 710 is already inside the final-turn joggle window.
	last, jAngle, inWindow = m.LastMoveOfLayer(710)
	if !last || jAngle != 700 || !inWindow {
		t.Errorf("LastMoveOfLayer(710) = %v, %v, %v; want in-window at joggle 700", last, jAngle, inWindow)
	}

	// Mid-layer, far from any joggle.
	if last, _, _ := m.LastMoveOfLayer(500); last {
		t.Error("LastMoveOfLayer(500) should be false mid-layer")
	}
}

func TestAuxiliaryIndices(t *testing.T) {
	m := testMap(t)

	a, ok := m.OddLayerFinalTurnAngle(1)
	if !ok || a != 400 {
		t.Errorf("OddLayerFinalTurnAngle(1) = %v, %v; want 400", a, ok)
	}
	if _, ok := m.OddLayerFinalTurnAngle(3); ok {
		t.Error("OddLayerFinalTurnAngle(3) should miss")
	}

	if !m.InMeasureLayers(7) {
		t.Error("layer 7 should be a measurement layer")
	}
	if m.InMeasureLayers(8) {
		t.Error("layer 8 should not be a measurement layer")
	}
}
