// Transition geometry
//
// Between layers the conductor crosses from one turn radius to the next
// through a transition: a circular arc blended into a straight segment.
// Feet and columns tracking the conductor through the window need a
// radial correction relative to the turn radius recorded in the coil
// map. Odd layers wind inner to outer and enter the window on the arc;
// even layers wind outer to inner and enter on the straight.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package geometry

import (
	"math"

	"scswind/pkg/coilmap"
)

const (
	// StraightLength is the length of the straight segment in mm.
	StraightLength = 220.25

	// ArcDeg is the angular span of the full transition window.
	ArcDeg = coilmap.TransitionArcDeg
)

// arcCenterRadius is the radius of the circle on which the arc segment
// ends, fixed by the straight length and the window span.
var arcCenterRadius = StraightLength / math.Sin(ArcDeg*math.Pi/180)

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// crossoverDeg returns the angle within the window at which the profile
// switches between arc and straight, measured from the arc end for odd
// layers and from the straight end for even layers.
func crossoverDeg(innerRadius float64, evenLayer bool) float64 {
	straightSpan := rad2deg(math.Atan(StraightLength / innerRadius))
	if evenLayer {
		return straightSpan
	}
	return ArcDeg - straightSpan
}

// TransitionAdjustment returns the radial correction in mm for a point
// degPast degrees into a transition window whose coil map row carries
// mapRadius. The correction ramps from zero at window entry to the full
// turn index at window exit; outside the window it is zero.
func TransitionAdjustment(mapRadius, degPast float64, evenLayer bool) float64 {
	if degPast < 0 || degPast > ArcDeg {
		return 0
	}
	if evenLayer {
		return evenAdjustment(mapRadius, degPast)
	}
	return oddAdjustment(mapRadius, degPast)
}

// oddAdjustment handles inner-to-outer layers. The map row radius is
// the outgoing (outer) turn radius.
func oddAdjustment(outerRadius, degPast float64) float64 {
	r2 := outerRadius
	r1 := r2 - coilmap.TurnIndexNominal
	rArc := r2 - arcCenterRadius
	change := crossoverDeg(r1, false)

	theta := deg2rad(degPast)
	if degPast <= change {
		sin := arcCenterRadius * math.Sin(theta)
		r := arcCenterRadius*math.Cos(theta) + math.Sqrt(rArc*rArc-sin*sin)
		return r2 - r
	}
	r := r1 / math.Cos(deg2rad(ArcDeg-degPast))
	return r2 - r
}

// evenAdjustment handles outer-to-inner layers. The map row radius is
// the incoming (inner) turn radius.
func evenAdjustment(innerRadius, degPast float64) float64 {
	r1 := innerRadius
	r2 := r1 + coilmap.TurnIndexNominal
	rArc := r2 - arcCenterRadius
	change := crossoverDeg(r1, true)

	if degPast <= change {
		r := r1 / math.Cos(deg2rad(degPast))
		return r - r1
	}
	theta := deg2rad(degPast - ArcDeg)
	sin := arcCenterRadius * math.Sin(theta)
	r := arcCenterRadius*math.Cos(theta) + math.Sqrt(rArc*rArc-sin*sin)
	return r - r1
}
