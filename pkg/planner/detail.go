// Position detail rows
//
// Each row of the position schedule describes one foot move: either a
// full set of foot positions (used to seed absolute starting points at
// layer and hex/quad boundaries) or a single selected axis move. The
// column positions are never planned here; they are filled with a
// sentinel and resolved by the machine at run time.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package planner

import (
	"scswind/pkg/coilmap"
	"scswind/pkg/errors"
)

// Position sentinels stored in schedule rows.
const (
	// InitialNoPosition marks a slot never assigned by the planner.
	InitialNoPosition = -20000.0

	// PositionNotCalculated marks a position resolved at run time.
	PositionNotCalculated = -10000.0
)

// Foot start and limit positions in mm.
const (
	FullRetractPos     = 735.0
	FullExtendPos      = -13.0
	RetreatingStartPos = -13.0
	AdvancingStartPos  = 729.0
)

// Role says whether a foot is following the winding radius outward
// (advancing) or backing away from it (retreating).
type Role int

const (
	RoleAdvancing Role = iota + 1
	RoleRetreating
)

// InsertMode selects how a row's positions are interpreted by the
// consumer: a distance for every axis, a distance for one selected
// axis, or an absolute-update for one selected axis.
type InsertMode int

const (
	ModeRelSelected InsertMode = iota
	ModeAbsSelected
	ModeAbsUpdateSelected
	ModeRelAll
	ModeAbsAll
)

func (m InsertMode) isSelected() bool {
	return m == ModeRelSelected || m == ModeAbsSelected || m == ModeAbsUpdateSelected
}

// Attributes carries the per-row planning context.
type Attributes struct {
	Trace        string  `json:"trace"`
	Absolute     bool    `json:"absolute"`
	InTransition bool    `json:"in_transition"`
	InJoggle     bool    `json:"in_joggle"`
	NewHqp       bool    `json:"new_hqp"`
	NewLayer     bool    `json:"new_layer"`
	LastTurn     bool    `json:"last_turn"`
	LastLayer    bool    `json:"last_layer"`
	CoilAngle    float64 `json:"coil_angle"`
}

// Selected describes a single-axis move.
type Selected struct {
	Dist           float64   `json:"dist"`
	Axis           AxisIndex `json:"axis"`
	AdjustAbsolute bool      `json:"adjust_absolute"`
}

// Detail is one position schedule row.
type Detail struct {
	// Feet and Columns hold per-pair positions indexed A inner,
	// A outer, B inner, ... F outer.
	Feet    [coilmap.ColumnCount]float64 `json:"feet"`
	Columns [coilmap.ColumnCount]float64 `json:"columns"`

	// SelectedAxes[0] flags selected mode; 1-24 flag individual axes.
	SelectedAxes [AxisCount + 1]bool `json:"selected_axes"`
	Selected     Selected            `json:"selected"`

	Attr Attributes `json:"attr"`

	// HqpAdj and LayerAdj correct the hex/quad and layer numbers a
	// coil map join would report for this row. Joggles land
	// irregularly against the columns, so the map values can be one
	// ahead of or behind the layer the feet are actually working.
	HqpAdj   int `json:"hqp_adj"`
	LayerAdj int `json:"layer_adj"`
}

func newDetail() *Detail {
	d := &Detail{}
	for i := range d.Feet {
		d.Feet[i] = InitialNoPosition
		d.Columns[i] = InitialNoPosition
	}
	return d
}

// selectAxis marks a single axis for the move, records the distance,
// and clears every other selection bit.
func (d *Detail) selectAxis(axis AxisIndex, dist float64, mode InsertMode) {
	d.Selected.Dist = dist
	d.Selected.Axis = axis
	d.Selected.AdjustAbsolute = mode == ModeAbsUpdateSelected
	for i := 1; i <= AxisCount; i++ {
		d.SelectedAxes[i] = AxisIndex(i) == axis
	}
}

// unselectAll clears the selection record and every selection bit.
func (d *Detail) unselectAll() {
	d.Selected.Dist = 0
	d.Selected.Axis = AxisUnknown
	d.Selected.AdjustAbsolute = false
	for i := 1; i <= AxisCount; i++ {
		d.SelectedAxes[i] = false
	}
}

func (d *Detail) setAttr(trace string, absolute bool, coilAngle float64,
	inTransition, inJoggle, newHqp, newLayer, lastTurn, lastLayer bool,
	hqpAdj, layerAdj int) {
	d.Attr = Attributes{
		Trace:        trace,
		Absolute:     absolute,
		InTransition: inTransition,
		InJoggle:     inJoggle,
		NewHqp:       newHqp,
		NewLayer:     newLayer,
		LastTurn:     lastTurn,
		LastLayer:    lastLayer,
		CoilAngle:    coilAngle,
	}
	d.HqpAdj = hqpAdj
	d.LayerAdj = layerAdj
}

// populateDetail fills in a schedule row.
//
// In the insert-all modes pos1 goes to the inner feet and pos2 to the
// outer feet; columns get the run-time sentinel. In absolute all mode
// with the joggle flag set, the foot pair at the row's column is nudged
// by one turn index: the retreating side out, the advancing side in,
// except on the last layer where the advancing side stays nominal.
//
// In the selected modes pos1 is the distance for the single foot
// implied by the column, layer parity, and role; pos2 is unused.
func populateDetail(d *Detail, coilAngle float64, isEven bool, role Role, mode InsertMode,
	pos1, pos2 float64, trace string,
	inTransition, inJoggle, isNewHqp, isNewLayer, isLastTurn, isLastLayer bool,
	hqpAdj, layerAdj int) error {

	column, err := ColumnForAngle(coilAngle)
	if err != nil {
		d.unselectAll()
		d.setAttr(trace+"column value out of range", false, coilAngle,
			false, false, false, false, false, false, 0, 0)
		return err
	}

	switch {
	case mode == ModeAbsAll || mode == ModeRelAll:
		// Inner feet to pos1, outer feet to pos2, with the joggle
		// nudge applied to the pair at this column.
		var innerNudge, outerNudge float64
		if inJoggle && mode == ModeAbsAll {
			if !isEven {
				// Odd layer: inner feet retreat, outer feet advance.
				innerNudge = coilmap.TurnIndexNominal
				if !isLastLayer {
					outerNudge = -coilmap.TurnIndexNominal
				}
			} else {
				// Even layer: inner feet advance, outer feet retreat.
				if !isLastLayer {
					innerNudge = -coilmap.TurnIndexNominal
				}
				outerNudge = coilmap.TurnIndexNominal
			}
		}
		for pair := 0; pair < 6; pair++ {
			d.Feet[pair*2] = pos1
			d.Feet[pair*2+1] = pos2
			if pair == column {
				d.Feet[pair*2] += innerNudge
				d.Feet[pair*2+1] += outerNudge
			}
		}
		for i := range d.Columns {
			d.Columns[i] = PositionNotCalculated
		}
		d.unselectAll()
		d.SelectedAxes[0] = false
		d.setAttr(trace, mode == ModeAbsAll, coilAngle,
			inTransition, inJoggle, isNewHqp, isNewLayer, isLastTurn, isLastLayer,
			hqpAdj, layerAdj)
		return nil

	case mode.isSelected():
		// Even layer advancing and odd layer retreating moves land on
		// the inner foot; the opposite pairings land on the outer.
		var axis AxisIndex
		switch {
		case (isEven && role == RoleAdvancing) || (!isEven && role == RoleRetreating):
			axis = AxisIndex(column*2 + 1)
		case (isEven && role == RoleRetreating) || (!isEven && role == RoleAdvancing):
			axis = AxisIndex(column*2 + 2)
		default:
			d.unselectAll()
			d.setAttr(trace+"foot role error", false, coilAngle,
				false, false, false, false, false, false, 0, 0)
			return errors.New(errors.ErrPlanColumn, "foot role unresolved").
				SetContext("angle", coilAngle)
		}
		d.selectAxis(axis, pos1, mode)
		d.SelectedAxes[0] = true
		d.setAttr(trace, mode == ModeAbsSelected || mode == ModeAbsUpdateSelected,
			coilAngle, inTransition, inJoggle, isNewHqp, isNewLayer,
			isLastTurn, isLastLayer, hqpAdj, layerAdj)
		return nil
	}

	return errors.New(errors.ErrPlanColumn, "unknown insert mode").
		SetContext("mode", int(mode))
}
