// Process event generation
//
// Winding needs operator and machine actions beyond the foot moves:
// plows pulled, landing rollers opened, insulation applied, pancakes
// loaded. Each action is derived from a coil map feature and scheduled
// at an angle offset from it. The generator walks the coil map in
// angle order and emits the event list the run-time sequencer consumes.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package events

import (
	"math"
	"sort"

	"scswind/pkg/coilmap"
	"scswind/pkg/log"
	"scswind/pkg/metrics"
)

// Event identifiers. The numbering is shared with the run-time
// sequencer and must not change.
const (
	IDLayerIncrement      = 1007
	IDConsolidateOddLayer = 1008
	IDTeachFiducial       = 1009
	IDHqpLoad             = 1010
	IDRemovePlow          = 1015
	IDHePipeInsulation    = 1016
	IDEndOddLayer         = 1017
	IDOpenLandingRoller   = 1018
	IDEndEvenLayer        = 1019
	IDLayerCompression    = 1020
	IDTurnMeasurement     = 1021
	IDMoveEChain          = 1022
	IDLeadEndgame         = 1023
)

// Angle offsets in degrees from the triggering feature.
const (
	OffsetPlow          = -55.0
	OffsetHePipe        = 160.0
	OffsetLandingRoller = 760.0
	OffsetLandedTurn    = 960.0
	OffsetFiducialLaser = 680.0

	AngleOffsetSmall         = 8.0
	AngleOffsetHePipe        = 30.0
	AngleOffsetConsolidation = -5.0

	// ConsolidationInterval spaces repeated consolidation events along
	// an odd layer.
	ConsolidationInterval = 120.0
)

// The e-chain is repositioned off the penultimate layer, and the lead
// endgame runs on the final one.
const (
	eChainLayer  = coilmap.LayersPerCoil - 1
	endgameLayer = coilmap.LayersPerCoil
)

// Event is one scheduled process action.
type Event struct {
	Angle float64 `json:"angle"`
	ID    int     `json:"id"`
	Name  string  `json:"name"`
}

var idNames = map[int]string{
	IDLayerIncrement:      "layer_increment",
	IDConsolidateOddLayer: "consolidate_odd_layer",
	IDTeachFiducial:       "teach_fiducial",
	IDHqpLoad:             "hqp_load",
	IDRemovePlow:          "remove_plow",
	IDHePipeInsulation:    "he_pipe_insulation",
	IDEndOddLayer:         "end_odd_layer",
	IDOpenLandingRoller:   "open_landing_roller",
	IDEndEvenLayer:        "end_even_layer",
	IDLayerCompression:    "layer_compression",
	IDTurnMeasurement:     "turn_measurement",
	IDMoveEChain:          "move_e_chain",
	IDLeadEndgame:         "lead_endgame",
}

// Name returns the sequencer name for an event identifier.
func Name(id int) string {
	if n, ok := idNames[id]; ok {
		return n
	}
	return "unknown"
}

// Build walks the coil map and returns the event list in ascending
// angle order.
func Build(cm *coilmap.Map) []Event {
	logger := log.GetLogger("events")
	rows := cm.Rows()

	var out []Event
	emit := func(angle float64, id int) {
		out = append(out, Event{Angle: angle, ID: id, Name: Name(id)})
		metrics.EventsEmitted.Inc(metrics.Labels{"event": Name(id)})
	}

	for i, row := range rows {
		var next coilmap.Row
		hasNext := i+1 < len(rows)
		if hasNext {
			next = rows[i+1]
		}
		// The joggle row carries the layer being started.
		nextIsLocalZero := hasNext && next.FeatureCode == coilmap.FeatureLocalZero

		switch row.FeatureCode {
		case coilmap.FeatureJoggle:
			if !nextIsLocalZero && row.Layer != eChainLayer {
				// Plow steps up to the next layer.
				emit(row.Angle+OffsetPlow, IDLayerIncrement)
			}
			if !nextIsLocalZero && row.Layer == eChainLayer {
				emit(row.Angle, IDMoveEChain)
			}
			if nextIsLocalZero {
				// A local zero after the joggle marks a pancake
				// boundary: load the next hex/quad and teach the
				// fiducial once the new lead is landed.
				emit(row.Angle, IDHqpLoad)
				emit(row.Angle+OffsetFiducialLaser, IDTeachFiducial)
			}
			if row.Layer%2 != 0 {
				// Odd layer starting: the even layer below is done.
				emit(row.Angle+OffsetLandingRoller-AngleOffsetSmall, IDEndEvenLayer)
				emitConsolidation(cm, row, emit)
			} else {
				emit(row.Angle+OffsetLandingRoller-AngleOffsetSmall, IDEndOddLayer)
			}
			if cm.InMeasureLayers(row.Layer) {
				emit(row.Angle+OffsetLandedTurn-AngleOffsetSmall, IDLayerCompression)
				emit(row.Angle+OffsetLandedTurn-AngleOffsetSmall, IDTurnMeasurement)
			}

		case coilmap.FeatureInlet, coilmap.FeatureOutlet:
			emit(row.Angle+OffsetPlow-AngleOffsetSmall, IDRemovePlow)
			emit(row.Angle+OffsetHePipe-AngleOffsetHePipe, IDHePipeInsulation)
			emit(row.Angle+OffsetLandingRoller-AngleOffsetSmall, IDOpenLandingRoller)

		case coilmap.FeatureWindingLock:
			if row.Layer == endgameLayer {
				emit(row.Angle-AngleOffsetSmall, IDLeadEndgame)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Angle < out[j].Angle })
	logger.Info("event list built", log.Fields{"events": len(out)})
	return out
}

// emitConsolidation schedules the consolidation series along an odd
// layer: the first event lands on the next hard-stop angle after the
// landed turn, then repeats every interval until the layer's final
// turn transition.
func emitConsolidation(cm *coilmap.Map, row coilmap.Row, emit func(float64, int)) {
	endAngle, ok := cm.OddLayerFinalTurnAngle(row.Layer)
	if !ok {
		return
	}

	// Snap up to the next hard stop. Stops repeat every 40 degrees
	// starting 20 past each azimuth.
	_, frac := math.Modf((row.Angle - 20) / 40)
	_, frac = math.Modf(1 - frac)
	hardStop := frac * 40

	for angle := row.Angle + OffsetLandedTurn + hardStop - AngleOffsetConsolidation; angle <= endAngle; angle += ConsolidationInterval {
		emit(angle, IDConsolidateOddLayer)
	}
}
