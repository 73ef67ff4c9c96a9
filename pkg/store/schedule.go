// Position schedule persistence
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"scswind/pkg/coilmap"
	"scswind/pkg/errors"
	"scswind/pkg/log"
	"scswind/pkg/planner"
)

// DerivedRow is one row of the derived distance view: the running
// absolute position of every foot after the schedule row at the same
// angle has run.
type DerivedRow struct {
	Angle int64                        `json:"angle"`
	Feet  [coilmap.ColumnCount]float64 `json:"feet"`
}

// SaveSchedule replaces the stored position schedule. All prior
// schedule and derived rows are cleared first so a regeneration never
// leaves stale angles behind.
func (s *Store) SaveSchedule(rows []planner.ScheduleRow) error {
	removed, err := s.deleteAll(prefixSchedule)
	if err != nil {
		return err
	}
	if _, err := s.deleteAll(prefixDerived); err != nil {
		return err
	}

	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return errors.Wrap(err, errors.ErrStoreWrite, "schedule row encode failed").
				SetContext("angle", row.Angle)
		}
		if err := s.set(scheduleKey(row.Angle), data); err != nil {
			return err
		}
	}

	s.logger.Info("schedule written", log.Fields{
		"rows":    len(rows),
		"removed": removed,
	})
	return nil
}

// LoadSchedule reads the stored schedule in ascending angle order.
func (s *Store) LoadSchedule() ([]planner.ScheduleRow, error) {
	keys, err := s.keysWithPrefix(prefixSchedule)
	if err != nil {
		return nil, err
	}

	rows := make([]planner.ScheduleRow, 0, len(keys))
	for _, key := range keys {
		data, err := s.get(key)
		if err != nil {
			return nil, err
		}
		var row planner.ScheduleRow
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "schedule row decode failed").
				SetContext("key", key)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Angle < rows[j].Angle })
	return rows, nil
}

// BuildDerived recomputes the derived distance view from the stored
// schedule. Seed rows reset every foot to their absolute positions;
// selected-axis rows either set one foot's absolute or adjust the last
// absolute by a relative distance. Re-running over the same schedule
// produces identical rows.
func (s *Store) BuildDerived() (int, error) {
	rows, err := s.LoadSchedule()
	if err != nil {
		return 0, err
	}
	if _, err := s.deleteAll(prefixDerived); err != nil {
		return 0, err
	}

	var feet [coilmap.ColumnCount]float64
	for i := range feet {
		feet[i] = planner.InitialNoPosition
	}

	written := 0
	for _, row := range rows {
		d := row.Detail
		if d == nil {
			continue
		}
		if d.SelectedAxes[0] {
			axis := int(d.Selected.Axis)
			if axis < 1 || axis > len(feet) {
				// Column axes carry no planned position.
				continue
			}
			if d.Attr.Absolute && !d.Selected.AdjustAbsolute {
				feet[axis-1] = d.Selected.Dist
			} else {
				feet[axis-1] += d.Selected.Dist
			}
		} else {
			feet = d.Feet
		}

		data, err := json.Marshal(DerivedRow{Angle: row.Angle, Feet: feet})
		if err != nil {
			return written, errors.Wrap(err, errors.ErrStoreWrite, "derived row encode failed").
				SetContext("angle", row.Angle)
		}
		if err := s.set(derivedKey(row.Angle), data); err != nil {
			return written, err
		}
		written++
	}

	s.logger.Info("derived view built", log.Fields{"rows": written})
	return written, nil
}

// LoadDerived reads the derived distance view in ascending angle order.
func (s *Store) LoadDerived() ([]DerivedRow, error) {
	keys, err := s.keysWithPrefix(prefixDerived)
	if err != nil {
		return nil, err
	}

	rows := make([]DerivedRow, 0, len(keys))
	for _, key := range keys {
		data, err := s.get(key)
		if err != nil {
			return nil, err
		}
		var row DerivedRow
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "derived row decode failed").
				SetContext("key", key)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Angle < rows[j].Angle })
	return rows, nil
}

func scheduleKey(angle int64) string {
	return fmt.Sprintf("%s%d", prefixSchedule, angle)
}

func derivedKey(angle int64) string {
	return fmt.Sprintf("%s%d", prefixDerived, angle)
}
