// Joggle move classification
//
// A joggle steps the conductor up to the next layer, so the foot moves
// around it differ from the nominal one-index march. Three regions
// around each joggle need special handling:
//
//	Region 1: within a turn before the joggle. The retreating foot adds
//	          half an index to its nominal move; the advancing foot is
//	          nominal.
//	Region 2: at or just past the joggle. The retreating foot goes to
//	          full retract; the advancing foot holds.
//	Region 3: about a turn past the joggle. Both feet move nominally.
//	          (The retreating foot used to hold here; the machine now
//	          takes the nominal move.)
//
// Everywhere else both feet are nominal and no joggle adjustment
// applies.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package planner

import (
	"math"

	"scswind/pkg/coilmap"
)

// JoggleAdjustment classifies the foot behavior a nearby joggle calls
// for.
type JoggleAdjustment int

const (
	// JoggleNominal: no joggle nearby, both feet nominal.
	JoggleNominal JoggleAdjustment = iota
	// JoggleRetAdjAdvNom: region 1, retreating foot adds an adjustment.
	JoggleRetAdjAdvNom
	// JoggleRetFullAdvNop: region 2, retreating foot to full retract,
	// advancing foot holds.
	JoggleRetFullAdvNop
	// JoggleRetNopAdvNom: region 3 under the superseded behavior. Kept
	// for completeness; the classifier no longer returns it.
	JoggleRetNopAdvNom
)

// Region thresholds in degrees relative to the joggle angle.
const (
	joggleRetractAdjThreshold  = 360.0
	joggleFullRetractThreshold = 0.0
	joggleAdvToFirstThreshold  = -360.0
)

// classifyJoggle returns the adjustment region for a column angle, the
// signed distances to the next and previous joggles, and the retreating
// foot adjustment amount (non-zero only in region 1).
func classifyJoggle(cm *coilmap.Map, angle float64) (adj JoggleAdjustment, degToNext, degToPrev, jAdj float64) {
	degToNext = math.Inf(1)
	var nextLen float64
	if next, ok := cm.JoggleCeil(angle); ok {
		degToNext = next - angle
		nextLen = cm.JoggleWindow(next)
	}

	degToPrev = math.Inf(-1)
	var prevLen float64
	if prev, ok := cm.JoggleFloor(angle); ok {
		degToPrev = prev - angle // negative when past the joggle
		prevLen = cm.JoggleWindow(prev)
	}

	switch {
	case joggleRetractAdjThreshold < degToNext &&
		(joggleAdvToFirstThreshold-prevLen) > degToPrev:
		// Next joggle too far ahead for region 1, previous too far
		// behind for regions 2 and 3.
		return JoggleNominal, degToNext, degToPrev, 0

	case joggleRetractAdjThreshold >= degToNext &&
		(joggleRetractAdjThreshold-nextLen) <= degToNext:
		// Region 1. Joggles are never close together, so the other
		// regions cannot also apply.
		return JoggleRetAdjAdvNom, degToNext, degToPrev, coilmap.TurnIndexNominal / 2

	case joggleFullRetractThreshold >= degToPrev &&
		(joggleFullRetractThreshold-prevLen) <= degToPrev:
		// Region 2.
		return JoggleRetFullAdvNop, degToNext, degToPrev, 0

	case joggleAdvToFirstThreshold >= degToPrev &&
		(joggleAdvToFirstThreshold-prevLen) <= degToPrev:
		// Region 3, now a nominal move for both feet.
		return JoggleNominal, degToNext, degToPrev, 0
	}

	return JoggleNominal, degToNext, degToPrev, 0
}
