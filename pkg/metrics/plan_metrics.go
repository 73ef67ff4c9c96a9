// Standard planner metrics
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

// Planner run metrics, registered on the default registry.
var (
	// RowsPlanned counts schedule rows written, labeled by kind
	// (move, seed).
	RowsPlanned = NewCounter("scswind_rows_planned_total",
		"Position schedule rows produced")

	// RowsDropped counts map rows skipped because no position could be
	// calculated for them.
	RowsDropped = NewCounter("scswind_rows_dropped_total",
		"Coil map rows skipped during planning")

	// EventsEmitted counts process events written, labeled by event name.
	EventsEmitted = NewCounter("scswind_events_emitted_total",
		"Process events generated")

	// StoreWrites counts keyed-store writes, labeled by key prefix.
	StoreWrites = NewCounter("scswind_store_writes_total",
		"Keyed store writes")

	// SweepSeconds records the wall time of the column sweep.
	SweepSeconds = NewGauge("scswind_sweep_seconds",
		"Duration of the column sweep")
)

func init() {
	MustRegister(RowsPlanned)
	MustRegister(RowsDropped)
	MustRegister(EventsEmitted)
	MustRegister(StoreWrites)
	MustRegister(SweepSeconds)
}
