// scswind regenerates the position and event tables for the SCS coil
// winding machine. It reads the coil map from the keyed store, plans
// one foot move per column azimuth across the whole coil, and writes
// the schedule, its derived distance view, and the process event table
// back to the store for the run-time sequencer.
//
// Usage:
//
//	scswind -c winder.cfg [-p] [-e]
//
// Options:
//
//	-c string  Configuration file (default "scswind.cfg")
//	-p         Regenerate the position tables
//	-e         Regenerate the event table
//
// At least one of -p or -e must be given. The exit status is nonzero
// when any selected operation fails.
//
// Examples:
//
//	# Regenerate everything
//	scswind -c winder.cfg -p -e
//
//	# Refresh only the event table after a coil map update
//	scswind -c winder.cfg -e
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"scswind/pkg/coilmap"
	"scswind/pkg/config"
	"scswind/pkg/events"
	"scswind/pkg/log"
	"scswind/pkg/metrics"
	"scswind/pkg/planner"
	"scswind/pkg/store"
)

func main() {
	configFile := flag.String("c", "scswind.cfg", "Configuration file")
	positions := flag.Bool("p", false, "Regenerate the position tables")
	eventTable := flag.Bool("e", false, "Regenerate the event table")
	flag.Parse()

	if !*positions && !*eventTable {
		fmt.Fprintf(os.Stderr, "Error: nothing to do, give -p and/or -e\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		pterm.Error.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg); err != nil {
		pterm.Error.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.DefaultHeader.WithFullWidth().Println("SCS Winding Table Planner")

	s, err := store.Open(cfg)
	if err != nil {
		pterm.Error.Printf("Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	cm, err := s.LoadCoilMap()
	if err != nil {
		pterm.Error.Printf("Failed to load coil map: %v\n", err)
		os.Exit(1)
	}
	pterm.Info.Printf("Coil map loaded: %d feature rows, %.0f..%.0f degrees\n",
		cm.Len(), cm.FirstAngle(), cm.LastAngle())

	showProgress := true
	if sec := cfg.GetSectionOptional("planner"); sec != nil {
		showProgress, _ = sec.GetBool("progress", true)
	}

	failed := false
	summary := pterm.TableData{{"Table", "Rows"}}

	if *positions {
		rows, derived, err := regeneratePositions(ctx, cm, s, showProgress)
		if err != nil {
			logger.WithError(err).Error("position table regeneration failed")
			pterm.Error.Printf("Position tables: %v\n", err)
			failed = true
		} else {
			pterm.Success.Printf("Position tables written: %d schedule rows, %d derived rows\n", rows, derived)
			summary = append(summary,
				[]string{"schedule", fmt.Sprintf("%d", rows)},
				[]string{"derived", fmt.Sprintf("%d", derived)})
		}
	}

	if *eventTable {
		count, err := regenerateEvents(cm, s)
		if err != nil {
			logger.WithError(err).Error("event table regeneration failed")
			pterm.Error.Printf("Event table: %v\n", err)
			failed = true
		} else {
			pterm.Success.Printf("Event table written: %d events\n", count)
			summary = append(summary, []string{"events", fmt.Sprintf("%d", count)})
		}
	}

	if len(summary) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(summary).Render()
	}
	logRunMetrics(logger)
	if failed {
		os.Exit(1)
	}
}

// logRunMetrics dumps the metrics registry into the log so every run
// leaves its counters behind next to its trace output.
func logRunMetrics(logger *log.Logger) {
	logger.Info("run metrics:\n%s", metrics.Gather())
}

// regeneratePositions plans the full schedule and replaces the stored
// position tables, then rebuilds the derived distance view from them.
func regeneratePositions(ctx context.Context, cm *coilmap.Map, s *store.Store, showProgress bool) (int, int, error) {
	p := planner.New(cm)

	if showProgress {
		total := coilmap.CoilAngleMax / int(coilmap.ColumnIncrement)
		bar, err := pterm.DefaultProgressbar.WithTotal(total).
			WithTitle("Planning column sweep").Start()
		if err == nil {
			prev := 0
			p.OnProgress = func(done, _ int) {
				bar.Add(done - prev)
				prev = done
			}
			defer bar.Stop()
		}
	}

	if err := p.Plan(ctx); err != nil {
		return 0, 0, err
	}

	rows := p.Schedule()
	if err := s.SaveSchedule(rows); err != nil {
		return 0, 0, err
	}
	derived, err := s.BuildDerived()
	if err != nil {
		return len(rows), 0, err
	}
	return len(rows), derived, nil
}

// regenerateEvents rebuilds the process event table from the coil map.
func regenerateEvents(cm *coilmap.Map, s *store.Store) (int, error) {
	evts := events.Build(cm)
	if err := s.SaveEvents(evts); err != nil {
		return 0, err
	}
	return len(evts), nil
}

// setupLogging applies the [logging] config section to the default
// logger: level, format, and an optional rotating log file.
func setupLogging(cfg *config.Config) error {
	sec := cfg.GetSectionOptional("logging")
	if sec == nil {
		return nil
	}

	logger := log.GetLogger("scswind")

	level, err := sec.Get("level", "INFO")
	if err != nil {
		return err
	}
	logger.SetLevel(log.ParseLevel(level))

	format, err := sec.GetChoice("format", []string{"text", "json"}, "text")
	if err != nil {
		return err
	}
	if format == "json" {
		logger.SetFormat(log.FormatJSON)
	}

	file, err := sec.Get("file", "")
	if err != nil {
		return err
	}
	if file != "" {
		maxSize, err := sec.GetInt("max_size_mb", 10)
		if err != nil {
			return err
		}
		maxBackups, err := sec.GetInt("max_backups", 5)
		if err != nil {
			return err
		}
		fileLogger, _, err := log.NewConsoleAndFileLogger("scswind", log.RotationConfig{
			Filename:   file,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
		})
		if err != nil {
			return err
		}
		fileLogger.SetLevel(log.ParseLevel(level))
		if format == "json" {
			fileLogger.SetFormat(log.FormatJSON)
		}
		log.SetDefaultLogger(fileLogger)
		return nil
	}

	log.SetDefaultLogger(logger)
	return nil
}
