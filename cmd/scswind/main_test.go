// CLI tests
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"bytes"
	"strings"
	"testing"

	"scswind/pkg/log"
	"scswind/pkg/metrics"
)

func TestLogRunMetrics(t *testing.T) {
	metrics.RowsPlanned.Inc(metrics.Labels{"kind": "seed"})
	metrics.StoreWrites.Inc(metrics.Labels{"prefix": "scs:"})
	metrics.SweepSeconds.Set(nil, 0.25)

	var buf bytes.Buffer
	logger := log.New("main")
	logger.SetWriter(&buf)
	logger.SetColorize(false)

	logRunMetrics(logger)

	out := buf.String()
	for _, name := range []string{
		"scswind_rows_planned_total",
		"scswind_store_writes_total",
		"scswind_sweep_seconds",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("metrics dump missing %s:\n%s", name, out)
		}
	}
}
