// Coil map: ordered, angle-keyed index of winding feature rows
//
// The map is built once from the feature-row supplier and is read-only
// afterwards. Keys are cumulative coil angles in degrees, strictly
// increasing and unbounded (a full coil exceeds 199,000 degrees).
// Alongside the main index the map carries a sorted set of joggle
// angles, a sorted set of hex/quad start angles, a layer-to-angle map
// of the odd-layer final-turn transitions, and the set of layers where
// turn measurement and compression occur.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package coilmap

import (
	"sort"

	"scswind/pkg/errors"
)

// Feature codes as stored in the coil map.
const (
	FeatureTransition  = "T"
	FeatureOutlet      = "O"
	FeatureInlet       = "I"
	FeatureJoggle      = "J"
	FeatureWindingLock = "W"
	FeatureLocalZero   = "L"

	// FeatureNone is reported for queries that resolve to no row.
	FeatureNone = "none"
)

// Coil structure constants.
const (
	TurnsPerLayer = 14
	LayersPerCoil = 40

	// The wound length stops 6 turns short of a full 14x40 coil.
	CoilAngleMax = (LayersPerCoil * TurnsPerLayer * 360) - (360 * 6)

	ColumnCount        = 12
	ColumnIncrement    = 60.0 // degrees, 6-fold symmetry
	InitialColumnAngle = 30.0 // degrees, column A

	// TurnIndexNominal is the nominal turn-to-turn index in mm.
	TurnIndexNominal = 53.0

	// Joggle window lengths in degrees. The window is the min length on
	// turn 1, the max length on the final turn, and zero elsewhere.
	JoggleLengthMin = 16.18
	JoggleLengthMax = 28.12

	// TransitionArcDeg is the angular span of a transition window.
	TransitionArcDeg = 27.06
)

// Row is one coil-map entry.
type Row struct {
	Angle       float64
	FeatureCode string
	HexQuad     int
	Layer       int
	Turn        int
	Azimuth     float64
	Radius      float64
}

// Map is the ordered feature index plus its auxiliary indices.
type Map struct {
	rows []Row // ascending by Angle

	joggleAngles   []float64 // ascending
	hqpStartAngles []float64 // ascending

	// odd-layer final-turn transition angle, by layer
	oddLayerFinalTurn map[int]float64

	// layers where measurement/compression occur
	measureLayers map[int]struct{}
}

// New builds a Map from supplier output. Rows must be sorted by angle
// and strictly increasing; joggle and hqp-start angles must be sorted.
func New(rows []Row, joggleAngles, hqpStartAngles []float64, oddLayerFinalTurn map[int]float64, measureLayers []int) (*Map, error) {
	if len(rows) == 0 {
		return nil, errors.CoilMapEmptyError()
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Angle <= rows[i-1].Angle {
			return nil, errors.CoilMapLoadError("feature angles not strictly increasing", nil).
				SetContext("angle", rows[i].Angle)
		}
	}

	ml := make(map[int]struct{}, len(measureLayers))
	for _, l := range measureLayers {
		ml[l] = struct{}{}
	}

	olft := make(map[int]float64, len(oddLayerFinalTurn))
	for k, v := range oddLayerFinalTurn {
		olft[k] = v
	}

	return &Map{
		rows:              rows,
		joggleAngles:      joggleAngles,
		hqpStartAngles:    hqpStartAngles,
		oddLayerFinalTurn: olft,
		measureLayers:     ml,
	}, nil
}

// Len returns the number of feature rows.
func (m *Map) Len() int {
	return len(m.rows)
}

// Rows returns the feature rows in ascending angle order. The returned
// slice is the map's backing store and must not be modified.
func (m *Map) Rows() []Row {
	return m.rows
}

// FirstAngle returns the angle of the first feature row.
func (m *Map) FirstAngle() float64 {
	return m.rows[0].Angle
}

// LastAngle returns the angle of the final feature row.
func (m *Map) LastAngle() float64 {
	return m.rows[len(m.rows)-1].Angle
}

// At returns the row whose angle exactly matches the query.
func (m *Map) At(angle float64) (Row, bool) {
	i := sort.Search(len(m.rows), func(i int) bool {
		return m.rows[i].Angle >= angle
	})
	if i < len(m.rows) && m.rows[i].Angle == angle {
		return m.rows[i], true
	}
	return Row{}, false
}

// floorIndex returns the index of the greatest row angle at or before
// the query, or -1 when no such row is usable.
//
// A query equal to the very last row's angle reports no result. The
// original planner data layer behaved this way and downstream tables
// were built against it, so the behavior is kept (see the floor tests).
func (m *Map) floorIndex(angle float64) int {
	if angle == m.rows[len(m.rows)-1].Angle {
		return -1
	}
	// first index with row angle strictly greater than the query
	i := sort.Search(len(m.rows), func(i int) bool {
		return m.rows[i].Angle > angle
	})
	if i == 0 {
		// query is before the first feature
		return -1
	}
	return i - 1
}

// Floor returns the row with the greatest angle at or before the query.
func (m *Map) Floor(angle float64) (Row, bool) {
	i := m.floorIndex(angle)
	if i < 0 {
		return Row{}, false
	}
	return m.rows[i], true
}

// Next returns the first row with an angle strictly after the query.
func (m *Map) Next(angle float64) (Row, bool) {
	i := sort.Search(len(m.rows), func(i int) bool {
		return m.rows[i].Angle > angle
	})
	if i == len(m.rows) {
		return Row{}, false
	}
	return m.rows[i], true
}

// PrevAngle returns the angle of the last row strictly before the
// query. It answers only when some row at or after the query exists.
func (m *Map) PrevAngle(angle float64) (float64, bool) {
	i := sort.Search(len(m.rows), func(i int) bool {
		return m.rows[i].Angle >= angle
	})
	if i == len(m.rows) || i == 0 {
		return 0, false
	}
	return m.rows[i-1].Angle, true
}

// FloorWithNext returns the floor row and the row after it. The second
// result is absent when the floor row is the final row.
func (m *Map) FloorWithNext(angle float64) (cur Row, next Row, curOK, nextOK bool) {
	i := m.floorIndex(angle)
	if i < 0 {
		return Row{}, Row{}, false, false
	}
	cur, curOK = m.rows[i], true
	if i+1 < len(m.rows) {
		next, nextOK = m.rows[i+1], true
	}
	return cur, next, curOK, nextOK
}

// JoggleFloor returns the greatest joggle angle at or before the query.
func (m *Map) JoggleFloor(angle float64) (float64, bool) {
	i := sort.Search(len(m.joggleAngles), func(i int) bool {
		return m.joggleAngles[i] > angle
	})
	if i == 0 {
		return 0, false
	}
	return m.joggleAngles[i-1], true
}

// JoggleCeil returns the least joggle angle at or after the query.
func (m *Map) JoggleCeil(angle float64) (float64, bool) {
	i := sort.Search(len(m.joggleAngles), func(i int) bool {
		return m.joggleAngles[i] >= angle
	})
	if i == len(m.joggleAngles) {
		return 0, false
	}
	return m.joggleAngles[i], true
}

// JoggleWindow returns the joggle window length for the query angle:
// the min length on turn 1, the max length on the final turn, zero on
// any other turn.
func (m *Map) JoggleWindow(angle float64) float64 {
	row, ok := m.Floor(angle)
	if !ok {
		return 0
	}
	switch row.Turn {
	case 1:
		return JoggleLengthMin
	case TurnsPerLayer:
		return JoggleLengthMax
	}
	return 0
}

// HqpStartFloor returns the greatest hex/quad start angle at or before
// the query.
func (m *Map) HqpStartFloor(angle float64) (float64, bool) {
	i := sort.Search(len(m.hqpStartAngles), func(i int) bool {
		return m.hqpStartAngles[i] > angle
	})
	if i == 0 {
		return 0, false
	}
	return m.hqpStartAngles[i-1], true
}

// OddLayerFinalTurnAngle returns the transition angle of the final turn
// of the given odd layer.
func (m *Map) OddLayerFinalTurnAngle(layer int) (float64, bool) {
	a, ok := m.oddLayerFinalTurn[layer]
	return a, ok
}

// InMeasureLayers reports whether measurement/compression occurs on the
// given layer.
func (m *Map) InMeasureLayers(layer int) bool {
	_, ok := m.measureLayers[layer]
	return ok
}
