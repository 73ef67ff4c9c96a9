// Position schedule planner
//
// The planner walks every column azimuth from the start of the coil to
// the coil end angle and produces one schedule row per foot move. Rows
// are keyed by the rotary-in-air (RIA) angle at which the move should
// run, which leads the column angle by a per-role offset. Seed rows
// with full absolute foot positions are inserted ahead of each new
// layer and each new hex/quad pancake; all other rows are single-axis
// moves relative to the previous position.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package planner

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"scswind/pkg/coilmap"
	"scswind/pkg/errors"
	"scswind/pkg/geometry"
	"scswind/pkg/log"
	"scswind/pkg/metrics"
)

// RIA angle offsets in degrees. A foot move must be issued before its
// column reaches the winding point.
const (
	AdvFootRiaOffset = 50.0
	RetFootRiaOffset = 100.0

	// NewLayerOffset shifts the new-layer seed row a little after the
	// advancing-foot row at the same column.
	NewLayerOffset = 5
)

// Start-of-coil RIA angles. The first hex/quad load and the initial F
// pair moves happen before the coil starts turning, so their rows carry
// negative angles.
const (
	SocPostLoadAngle = -140
	SocInitRetrAngle = -130
	SocInitAdvAngle  = -80
)

// ScheduleRow pairs a RIA angle with its position detail.
type ScheduleRow struct {
	Angle  int64   `json:"angle"`
	Detail *Detail `json:"detail"`
}

// Planner builds the position schedule from a coil map.
type Planner struct {
	cm     *coilmap.Map
	logger *log.Logger

	schedule map[int64]*Detail

	// per-column transition bookkeeping, A through F
	adjMark [6]bool

	// OnProgress, when set, is called once per sweep iteration.
	OnProgress func(done, total int)
}

// New returns a planner over the given coil map.
func New(cm *coilmap.Map) *Planner {
	return &Planner{
		cm:       cm,
		logger:   log.GetLogger("planner"),
		schedule: make(map[int64]*Detail),
	}
}

// Len returns the number of schedule rows planned so far.
func (p *Planner) Len() int {
	return len(p.schedule)
}

// Row returns the schedule row at the given RIA angle.
func (p *Planner) Row(angle int64) (*Detail, bool) {
	d, ok := p.schedule[angle]
	return d, ok
}

// Schedule returns the planned rows in ascending RIA angle order.
func (p *Planner) Schedule() []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(p.schedule))
	for angle, d := range p.schedule {
		rows = append(rows, ScheduleRow{Angle: angle, Detail: d})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Angle < rows[j].Angle })
	return rows
}

// mapMove enters a row into the schedule. RIA angles are rounded to
// whole degrees; when two rows land on the same angle the later one
// wins.
func (p *Planner) mapMove(angle float64, d *Detail) {
	p.schedule[int64(math.Round(angle))] = d
}

// transitionAdjustment returns the radial correction for a column angle
// based on its coil map floor row. Lookup failures yield zero.
func (p *Planner) transitionAdjustment(angle float64) float64 {
	row, ok := p.cm.Floor(angle)
	if !ok {
		return 0
	}
	return geometry.TransitionAdjustment(row.Radius, angle-row.Angle, row.Layer%2 == 0)
}

// setTransAdjust marks the column at the given angle as having received
// a transition adjustment.
func (p *Planner) setTransAdjust(angle float64) bool {
	col, err := ColumnForAngle(angle)
	if err != nil {
		return false
	}
	p.adjMark[col] = true
	return true
}

func (p *Planner) clearAllTransAdjust() {
	for i := range p.adjMark {
		p.adjMark[i] = false
	}
}

func (p *Planner) isTransAdjustSet(angle float64) bool {
	col, err := ColumnForAngle(angle)
	if err != nil {
		return false
	}
	return p.adjMark[col]
}

// newLayerRiaAngle returns the RIA angle for a new-layer seed row and
// whether the starting layer is even. The joggle angle near the current
// column decides the parity.
func (p *Planner) newLayerRiaAngle(coilAngle, joggleAngle float64) (float64, bool) {
	ria := coilAngle - AdvFootRiaOffset + NewLayerOffset
	isEven, _ := p.cm.IsEvenLayer(joggleAngle)
	return ria, isEven
}

// mapPostLoadPositions seeds the schedule with full foot positions for
// a new hex/quad pancake: inner feet to the retreating start, outer
// feet to the advancing start. The row lands after the layer-end joggle
// window, offset back by the retreating foot RIA lead.
func (p *Planner) mapPostLoadPositions(angle float64, inJoggleWindow bool) error {
	d := newDetail()

	var joggleAngle float64
	var ok bool
	if inJoggleWindow {
		joggleAngle, ok = p.cm.JoggleFloor(angle)
	} else {
		joggleAngle, ok = p.cm.JoggleCeil(angle)
	}

	var riaAngle float64
	var hqpAdj, layerAdj int
	var trace string
	switch {
	case ok && !inJoggleWindow:
		riaAngle = (joggleAngle + coilmap.JoggleLengthMin) - RetFootRiaOffset
		hqpAdj, layerAdj = 1, 1
		trace = fmt.Sprintf("Post Load Positions. Column Angle: %d. Inner feet to Retr. Start, Outer to Adv. Start. Columns not known, use sentinel.", int64(angle))
	case ok && inJoggleWindow:
		riaAngle = (joggleAngle + coilmap.JoggleLengthMin) - RetFootRiaOffset
		hqpAdj, layerAdj = 0, 0
		trace = fmt.Sprintf("Post Load Positions (column in joggle window). Column Angle: %d. Inner feet to Retr. Start, Outer to Adv. Start. Columns not known, use sentinel.", int64(angle))
	default:
		riaAngle = PositionNotCalculated
		trace = fmt.Sprintf("Error looking up joggle at Column Angle: %d. Trying to enter post load feet positions.", int64(angle))
	}

	// New pancakes always begin on an odd layer.
	err := populateDetail(d, angle, false, RoleAdvancing, ModeAbsAll,
		RetreatingStartPos, AdvancingStartPos, trace,
		false, inJoggleWindow, true, false, false, false, hqpAdj, layerAdj)
	if err != nil {
		p.logger.WithError(err).Error("post load row not added", log.Fields{"ria_angle": riaAngle})
		metrics.RowsDropped.Inc(nil)
		return err
	}
	p.mapMove(riaAngle, d)
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})
	return nil
}

// mapCoilStartPositions seeds the start of the coil: the post-load row
// at a fixed negative angle, then single moves retracting F inner and
// advancing F outer to release the lead tail. Returns the transition
// adjustment applied to the F pair so the sweep can account for it.
func (p *Planner) mapCoilStartPositions() (float64, error) {
	d := newDetail()

	trace := fmt.Sprintf("Start of coil positions. Column Angle: %d. Inner feet to retr. start, Outer feet to adv. start. Columns not known, use sentinel.", int64(AzimuthF-10-360))
	err := populateDetail(d, AzimuthE-360, false, RoleAdvancing, ModeAbsAll,
		RetreatingStartPos, AdvancingStartPos, trace,
		false, false, true, false, false, false, 0, 0)
	if err != nil {
		p.logger.WithError(err).Error("start of coil row not added")
		metrics.RowsDropped.Inc(nil)
		return 0, err
	}
	p.mapMove(SocPostLoadAngle, d)
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})

	// The F pair sits just past the lead transition at the start of
	// the coil, so its first two moves track the transition profile.
	in, degPast, ok := p.cm.InTransition(AzimuthF)
	if !ok || !in {
		return 0, nil
	}

	p.setTransAdjust(AzimuthF)
	tAdj := p.transitionAdjustment(AzimuthF)

	retr := newDetail()
	trace = fmt.Sprintf("Release lead.  Column Angle: %d. F Inner past trans. by %.6f degs. Retract %.6f mm.",
		int64(AzimuthF-360), degPast, tAdj)
	err = populateDetail(retr, AzimuthF-360, false, RoleRetreating, ModeAbsUpdateSelected,
		math.Abs(tAdj), 0, trace,
		true, false, false, false, false, false, 0, 0)
	if err != nil {
		p.logger.WithError(err).Error("initial retract row not added")
		metrics.RowsDropped.Inc(nil)
		return tAdj, err
	}
	p.mapMove(SocInitRetrAngle, retr)
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})

	adv := newDetail()
	trace = fmt.Sprintf("Lead released.  Column Angle: %d. F Outer past trans. by %.6f degs. Advance %.6f mm.",
		int64(AzimuthF-360), degPast, tAdj)
	err = populateDetail(adv, AzimuthF-360, false, RoleAdvancing, ModeAbsUpdateSelected,
		-math.Abs(tAdj), 0, trace,
		true, false, false, false, false, false, 0, 0)
	if err != nil {
		p.logger.WithError(err).Error("initial advance row not added")
		metrics.RowsDropped.Inc(nil)
		return tAdj, err
	}
	p.mapMove(SocInitAdvAngle, adv)
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})

	return tAdj, nil
}

// mapNewLayerPositions seeds the schedule with full foot positions for
// a new layer. On an even layer the inner feet advance and the outer
// feet retreat; on an odd layer the roles swap.
func (p *Planner) mapNewLayerPositions(riaAngle, coilAngle float64, isEven, isLastLayer, inJoggleWindow, isNewHqp bool) error {
	d := newDetail()

	layerAdj := 1
	if inJoggleWindow {
		layerAdj = 0
	}

	var pos1, pos2 float64
	var trace string
	if isEven {
		pos1, pos2 = AdvancingStartPos, RetreatingStartPos
		if inJoggleWindow {
			trace = fmt.Sprintf("New Even Layer Start Positions (column in joggle window). Column Angle: %d. Inner feet to adv. start, Outer feet to retr. start. Columns not known, use sentinel.", int64(coilAngle))
		} else {
			trace = fmt.Sprintf("New Even Layer Start Positions. Column Angle: %d. Inner feet to adv. start, Outer feet to retr. start. Columns not known, use sentinel.", int64(coilAngle))
		}
	} else {
		pos1, pos2 = RetreatingStartPos, AdvancingStartPos
		if inJoggleWindow {
			trace = fmt.Sprintf("New Odd Layer Start Positions (column in joggle window). Column Angle: %d. Inner feet to retr. start, Outer feet to adv. start. Columns not known, use sentinel.", int64(coilAngle))
		} else {
			trace = fmt.Sprintf("New Odd Layer Start Positions. Column Angle: %d. Inner feet to retr. start, Outer feet to adv. start. Columns not known, use sentinel.", int64(coilAngle))
		}
	}

	err := populateDetail(d, coilAngle, isEven, RoleAdvancing, ModeAbsAll,
		pos1, pos2, trace,
		false, inJoggleWindow, isNewHqp, true, false, isLastLayer, 0, layerAdj)
	if err != nil {
		p.logger.WithError(err).Error("new layer row not added", log.Fields{"ria_angle": riaAngle})
		metrics.RowsDropped.Inc(nil)
		return err
	}
	p.mapMove(riaAngle, d)
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})
	return nil
}

// Plan sweeps every column azimuth and fills the schedule. It may be
// called once per planner.
func (p *Planner) Plan(ctx context.Context) error {
	start := time.Now()

	hqpNumberPrev := 0
	layerNumberPrev := 0

	tAccumAdj := 0.0

	total := coilmap.CoilAngleMax / int(coilmap.ColumnIncrement)
	count := 0

	for currentAngle := int(coilmap.InitialColumnAngle); currentAngle <= coilmap.CoilAngleMax; currentAngle += int(coilmap.ColumnIncrement) {
		count++
		if p.OnProgress != nil {
			p.OnProgress(count, total)
		}
		if count%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrPlanSweep, "column sweep canceled")
			}
		}

		angle := float64(currentAngle)
		logicTrace := fmt.Sprintf("Column Ang: %d, ", currentAngle)

		// Seed rows: the coil start on the very first iteration,
		// otherwise a new layer or hex/quad when the last move of a
		// layer comes up.
		if currentAngle == int(coilmap.InitialColumnAngle) {
			hqpNumberPrev = 1
			layerNumberPrev = 1
			tAdj, err := p.mapCoilStartPositions()
			if err == nil {
				tAccumAdj = tAdj
			}
		} else if last, joggleAngle, inWindow := p.cm.LastMoveOfLayer(angle); last {
			// The layer number changes at every joggle but the
			// hex/quad number only at a new pancake, so check the
			// hex/quad first.
			joggleRow, ok := p.cm.Floor(joggleAngle)
			switch {
			case ok && joggleRow.HexQuad != hqpNumberPrev:
				p.mapPostLoadPositions(angle, inWindow)
				hqpNumberPrev = joggleRow.HexQuad
			case ok && joggleRow.Layer != layerNumberPrev:
				lastLayer := coilmap.IsLastHqLayer(joggleRow.Layer)
				ria, isEven := p.newLayerRiaAngle(angle, joggleAngle)
				p.mapNewLayerPositions(ria, angle, isEven, lastLayer, inWindow, false)
				layerNumberPrev = joggleRow.Layer
			default:
				logicTrace += fmt.Sprintf("Error looking for new layer or hqp @ angle: %d. ", currentAngle)
			}
		}

		// Joggle classification drives both feet; outside the joggle
		// regions the transition correction applies instead.
		jAdjType, degToNext, degToPrev, jAdj := classifyJoggle(p.cm, angle)
		isJoggleAdj := jAdjType != JoggleNominal
		inTransition := false
		tThisAdj := 0.0

		switch jAdjType {
		case JoggleRetAdjAdvNom:
			logicTrace += fmt.Sprintf("Joggle in %.6f degs. Ret Ft Nom + Adj %.6fmm, Adv Ft Nom, ", degToNext, jAdj)
		case JoggleRetFullAdvNop:
			logicTrace += fmt.Sprintf("Past Joggle by %.6f degs. Ret Ft Full Retract, Adv Ft No Move, ", -degToPrev)
		case JoggleRetNopAdvNom:
			logicTrace += fmt.Sprintf("Past Joggle by %.6f degs. Ret Ft No Move, Adv Ft Nom, ", -degToPrev)
		default:
			// The per-turn correction is the profile value for this
			// turn less what previous turns already took. Once the
			// column drifts off the window, the remainder up to a full
			// index is applied and the accumulator resets.
			in, degPast, ok := p.cm.InTransition(angle)
			switch {
			case ok && in:
				p.setTransAdjust(angle)
				tThisAdj = p.transitionAdjustment(angle) - tAccumAdj
				tAccumAdj += tThisAdj
				inTransition = true
				logicTrace += fmt.Sprintf("No Joggle Adj, Past Trans by %.6f degs. Adj: %.6f mm, ", degPast, tThisAdj)
			case ok && !in && p.isTransAdjustSet(angle):
				tThisAdj = coilmap.TurnIndexNominal - tAccumAdj
				tAccumAdj = 0
				p.clearAllTransAdjust()
				inTransition = true
				logicTrace += fmt.Sprintf("No Joggle Adj, Now off trans. Adj: %.6f mm, ", tThisAdj)
			case ok:
				logicTrace += "No Joggle Adj, No Trans Adj, "
			default:
				tAccumAdj = 0
				logicTrace += fmt.Sprintf("Error looking up transition @ angle: %d. ", currentAngle)
			}
		}

		// Layer and parity. Near a joggle (region 2) the map already
		// reports the next layer, one ahead of the layer the feet are
		// still working.
		layerNumber := 0
		if row, ok := p.cm.Floor(angle); ok {
			layerNumber = row.Layer
			if jAdjType == JoggleRetFullAdvNop {
				layerNumber--
			}
		} else {
			logicTrace += fmt.Sprintf("Error looking up layer number @ angle: %d. ", currentAngle)
		}
		isEvenLayer := layerNumber%2 == 0

		// Turn numbers under the advancing and retreating columns.
		advancingTurn := 0
		if row, ok := p.cm.Floor(angle); ok {
			advancingTurn = row.Turn
		}
		retreatingTurn := advancingTurn + 1
		if isEvenLayer {
			retreatingTurn = advancingTurn - 1
			logicTrace += fmt.Sprintf("Even Layer(%d), ", layerNumber)
		} else {
			logicTrace += fmt.Sprintf("Odd Layer(%d), ", layerNumber)
		}

		isLastTurn := coilmap.IsLastTurn(advancingTurn, isEvenLayer)
		if isLastTurn {
			logicTrace += "Last Turn, "
		} else {
			logicTrace += "Not Last Turn, "
		}
		isLastLayer := coilmap.IsLastHqLayer(layerNumber)
		if isLastLayer {
			logicTrace += "LastLayer. "
		} else {
			logicTrace += "NotLastLayer. "
		}

		// Near a joggle on the last turn the map values have already
		// stepped; pull the reported layer (and pancake, on the last
		// layer) back by one.
		layerAdj := 0
		if isLastTurn && isJoggleAdj {
			layerAdj = -1
		}
		hqpAdj := 0
		if isLastTurn && isLastLayer && isJoggleAdj {
			hqpAdj = -1
		}

		// Advancing foot move. On the last layer the advancing feet
		// are already fully out and stay there.
		if !isLastLayer {
			riaAngle := float64(currentAngle) - AdvFootRiaOffset

			var dist float64
			mode := ModeAbsUpdateSelected
			switch {
			case (!isLastTurn && jAdjType == JoggleNominal) ||
				jAdjType == JoggleRetAdjAdvNom || jAdjType == JoggleRetNopAdvNom:
				dist = -(coilmap.TurnIndexNominal + tThisAdj)
			case jAdjType == JoggleRetFullAdvNop:
				dist = 0
			case isLastTurn:
				dist = FullExtendPos
				mode = ModeAbsSelected
				tAccumAdj = 0
				p.clearAllTransAdjust()
			default:
				dist = 0
				logicTrace += "Logic error determining advancing foot move."
			}

			d := newDetail()
			err := populateDetail(d, angle, isEvenLayer, RoleAdvancing, mode,
				dist, 0, logicTrace, inTransition, isJoggleAdj, false, false,
				isLastTurn, isLastLayer, hqpAdj, layerAdj)
			if err != nil {
				p.logger.WithError(err).Error("advancing foot row not added", log.Fields{"ria_angle": riaAngle})
				metrics.RowsDropped.Inc(nil)
			} else {
				// *MS marks the move summary within the longer trace.
				// Advancing distances are negative; shown positive.
				if mode == ModeAbsSelected {
					d.Attr.Trace += fmt.Sprintf("*MS: Adv Ft To Trn: %d. Adv (abs) %s to %.6f mm.",
						advancingTurn, d.Selected.Axis, -d.Selected.Dist)
				} else {
					d.Attr.Trace += fmt.Sprintf("*MS: Adv Ft To Trn: %d. Adv (rel) %s %.6f mm.",
						advancingTurn, d.Selected.Axis, -d.Selected.Dist)
				}
				p.mapMove(riaAngle, d)
				metrics.RowsPlanned.Inc(metrics.Labels{"kind": "move"})
			}
		} else if isLastTurn {
			// Last turn of the last layer: a column may still sit on a
			// transition when the pancake ends.
			tAccumAdj = 0
			p.clearAllTransAdjust()
		}

		// Retreating foot move.
		riaAngle := float64(currentAngle) - RetFootRiaOffset

		var dist float64
		mode := ModeAbsUpdateSelected
		switch {
		case jAdjType == JoggleRetAdjAdvNom:
			dist = coilmap.TurnIndexNominal + tThisAdj + jAdj
		case jAdjType == JoggleRetFullAdvNop:
			dist = FullRetractPos
			mode = ModeAbsSelected
		case jAdjType == JoggleRetNopAdvNom:
			dist = 0
		case !isLastTurn:
			dist = coilmap.TurnIndexNominal + tThisAdj
		case isLastTurn:
			dist = FullRetractPos
			mode = ModeAbsSelected
		default:
			dist = 0
			logicTrace += "Logic error determining retreating foot move."
		}

		d := newDetail()
		err := populateDetail(d, angle, isEvenLayer, RoleRetreating, mode,
			dist, 0, logicTrace, inTransition, isJoggleAdj, false, false,
			isLastTurn, isLastLayer, hqpAdj, layerAdj)
		if err != nil {
			p.logger.WithError(err).Error("retreating foot row not added", log.Fields{"ria_angle": riaAngle})
			metrics.RowsDropped.Inc(nil)
		} else {
			if mode == ModeAbsSelected {
				d.Attr.Trace += fmt.Sprintf("*MS: Ret Ft To Trn: %d. Ret (abs) %s to %.6f mm.",
					retreatingTurn, d.Selected.Axis, d.Selected.Dist)
			} else {
				d.Attr.Trace += fmt.Sprintf("*MS: Ret Ft To Trn: %d. Ret (rel) %s %.6f mm.",
					retreatingTurn, d.Selected.Axis, d.Selected.Dist)
			}
			p.mapMove(riaAngle, d)
			metrics.RowsPlanned.Inc(metrics.Labels{"kind": "move"})
		}
	}

	metrics.SweepSeconds.Set(nil, time.Since(start).Seconds())
	p.logger.Info("column sweep complete", log.Fields{
		"rows":    len(p.schedule),
		"elapsed": time.Since(start).String(),
	})
	return nil
}
