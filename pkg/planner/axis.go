// Axis enumeration and column resolution
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package planner

import (
	"math"

	"scswind/pkg/errors"
)

// AxisIndex identifies one of the 24 machine axes: feet 1-12, columns
// 13-24, each group ordered A through F with inner before outer.
type AxisIndex int

const (
	AxisUnknown AxisIndex = iota
	FootAIn
	FootAOut
	FootBIn
	FootBOut
	FootCIn
	FootCOut
	FootDIn
	FootDOut
	FootEIn
	FootEOut
	FootFIn
	FootFOut
	ColAIn
	ColAOut
	ColBIn
	ColBOut
	ColCIn
	ColCOut
	ColDIn
	ColDOut
	ColEIn
	ColEOut
	ColFIn
	ColFOut
)

// AxisCount is the number of real axes (feet plus columns).
const AxisCount = 24

var axisNames = map[AxisIndex]string{
	FootAIn: "A Foot Inner", FootAOut: "A Foot Outer",
	FootBIn: "B Foot Inner", FootBOut: "B Foot Outer",
	FootCIn: "C Foot Inner", FootCOut: "C Foot Outer",
	FootDIn: "D Foot Inner", FootDOut: "D Foot Outer",
	FootEIn: "E Foot Inner", FootEOut: "E Foot Outer",
	FootFIn: "F Foot Inner", FootFOut: "F Foot Outer",
	ColAIn: "A Column Inner", ColAOut: "A Column Outer",
	ColBIn: "B Column Inner", ColBOut: "B Column Outer",
	ColCIn: "C Column Inner", ColCOut: "C Column Outer",
	ColDIn: "D Column Inner", ColDOut: "D Column Outer",
	ColEIn: "E Column Inner", ColEOut: "E Column Outer",
	ColFIn: "F Column Inner", ColFOut: "F Column Outer",
}

func (a AxisIndex) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return "Unknown Index!"
}

// Column azimuths in degrees. The six column pairs sit every 60
// degrees around the machine.
const (
	AzimuthA = 30
	AzimuthB = 90
	AzimuthC = 150
	AzimuthD = 210
	AzimuthE = 270
	AzimuthF = 330
)

// ColumnForAngle resolves a coil angle to a column number 0-5 (A-F).
// The angle must fall exactly on a column azimuth.
func ColumnForAngle(angle float64) (int, error) {
	azi := int(math.Mod(angle, 360))
	if azi < 0 {
		azi += 360
	}
	switch azi {
	case AzimuthA:
		return 0, nil
	case AzimuthB:
		return 1, nil
	case AzimuthC:
		return 2, nil
	case AzimuthD:
		return 3, nil
	case AzimuthE:
		return 4, nil
	case AzimuthF:
		return 5, nil
	}
	return -1, errors.ColumnResolveError(angle)
}
