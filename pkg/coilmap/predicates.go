// Coil map predicates
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package coilmap

// IsEvenLayer reports whether the floor row of the query angle lies on
// an even layer. Even layers wind outer to inner, odd layers inner to
// outer.
func (m *Map) IsEvenLayer(angle float64) (bool, bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, false
	}
	return row.Layer%2 == 0, true
}

// IsOddLayer reports whether the floor row of the query angle lies on
// an odd layer.
func (m *Map) IsOddLayer(angle float64) (bool, bool) {
	even, ok := m.IsEvenLayer(angle)
	return !even, ok
}

// IsLocalZero reports whether the floor feature of the query angle is a
// local zero.
func (m *Map) IsLocalZero(angle float64) (bool, bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, false
	}
	return row.FeatureCode == FeatureLocalZero, true
}

// InTransition reports whether the query angle lies inside a transition
// window. degPast is the angular distance past the floor feature and is
// valid whenever ok is true, in or out of the window.
func (m *Map) InTransition(angle float64) (in bool, degPast float64, ok bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, 0, false
	}
	degPast = angle - row.Angle
	in = row.FeatureCode == FeatureTransition && degPast <= TransitionArcDeg
	return in, degPast, true
}

// InJoggle reports whether the query angle lies inside a joggle window.
// The window length depends on the turn of the joggle feature.
func (m *Map) InJoggle(angle float64) (bool, bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, false
	}
	var window float64
	switch row.Turn {
	case 1:
		window = JoggleLengthMin
	case TurnsPerLayer:
		window = JoggleLengthMax
	}
	in := row.FeatureCode == FeatureJoggle && (angle-row.Angle) <= window
	return in, true
}

// IsLastTurn reports whether the given turn is the final turn of its
// layer. Even layers count down to turn 1, odd layers count up to the
// full turn count.
func IsLastTurn(turn int, isEvenLayer bool) bool {
	if isEvenLayer {
		return turn == 1
	}
	return turn == TurnsPerLayer
}

// IsLastTurnAt reports whether the floor row of the query angle is on
// the final turn of its layer.
func (m *Map) IsLastTurnAt(angle float64) (bool, bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, false
	}
	return IsLastTurn(row.Turn, row.Layer%2 == 0), true
}

// IsLastHqLayer reports whether the given layer is the final layer of a
// hex/quad pancake.
func IsLastHqLayer(layer int) bool {
	switch layer {
	case 6, 12, 18, 22, 28, 34:
		return true
	}
	return layer >= LayersPerCoil
}

// IsLastHqLayerAt reports whether the floor row of the query angle lies
// on the final layer of a hex/quad pancake.
func (m *Map) IsLastHqLayerAt(angle float64) (bool, bool) {
	row, ok := m.Floor(angle)
	if !ok {
		return false, false
	}
	return IsLastHqLayer(row.Layer), true
}

// LastMoveOfLayer reports whether the next column move from the query
// angle is the final one before a layer change. When it is, the
// returned joggle angle locates the layer-end joggle. inWindow is true
// when the query angle has already entered that joggle's window.
func (m *Map) LastMoveOfLayer(angle float64) (last bool, joggleAngle float64, inWindow bool) {
	if next, ok := m.JoggleCeil(angle); ok {
		if next+m.JoggleWindow(next) < angle+ColumnIncrement {
			return true, next, false
		}
	}
	if prev, ok := m.JoggleFloor(angle); ok {
		if prev+m.JoggleWindow(prev) >= angle {
			return true, prev, true
		}
	}
	return false, 0, false
}
