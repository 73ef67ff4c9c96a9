// Coil map supplier
//
// The coil map is produced upstream by the winding-pack design tools
// and loaded into the store before a run. The supplier reads the
// feature rows and the auxiliary angle lists and assembles the in-core
// map the planner and event generator consume.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package store

import (
	"encoding/json"

	"scswind/pkg/coilmap"
	"scswind/pkg/errors"
	"scswind/pkg/log"
)

// Coil map table keys.
const (
	keyCoilMapRows    = prefixCoilMap + "rows"
	keyJoggleAngles   = prefixCoilMap + "joggle_angles"
	keyHqpStartAngles = prefixCoilMap + "hqp_start_angles"
	keyOddFinalTurns  = prefixCoilMap + "odd_final_turns"
	keyMeasureLayers  = prefixCoilMap + "measure_layers"
)

// SaveCoilMap stores the coil map tables.
func (s *Store) SaveCoilMap(rows []coilmap.Row, joggleAngles, hqpStartAngles []float64,
	oddFinalTurns map[int]float64, measureLayers []int) error {

	for _, entry := range []struct {
		key   string
		value interface{}
	}{
		{keyCoilMapRows, rows},
		{keyJoggleAngles, joggleAngles},
		{keyHqpStartAngles, hqpStartAngles},
		{keyOddFinalTurns, oddFinalTurns},
		{keyMeasureLayers, measureLayers},
	} {
		data, err := json.Marshal(entry.value)
		if err != nil {
			return errors.Wrap(err, errors.ErrStoreWrite, "coil map encode failed").
				SetContext("key", entry.key)
		}
		if err := s.set(entry.key, data); err != nil {
			return err
		}
	}

	s.logger.Info("coil map written", log.Fields{"rows": len(rows)})
	return nil
}

// LoadCoilMap reads the coil map tables and assembles the map. The
// auxiliary tables are optional; missing ones load empty.
func (s *Store) LoadCoilMap() (*coilmap.Map, error) {
	var rows []coilmap.Row
	data, err := s.get(keyCoilMapRows)
	if err != nil {
		return nil, errors.CoilMapLoadError("feature rows not in store", err)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.CoilMapLoadError("feature rows decode failed", err)
	}

	var joggleAngles, hqpStartAngles []float64
	var oddFinalTurns map[int]float64
	var measureLayers []int
	if err := s.loadOptional(keyJoggleAngles, &joggleAngles); err != nil {
		return nil, err
	}
	if err := s.loadOptional(keyHqpStartAngles, &hqpStartAngles); err != nil {
		return nil, err
	}
	if err := s.loadOptional(keyOddFinalTurns, &oddFinalTurns); err != nil {
		return nil, err
	}
	if err := s.loadOptional(keyMeasureLayers, &measureLayers); err != nil {
		return nil, err
	}

	return coilmap.New(rows, joggleAngles, hqpStartAngles, oddFinalTurns, measureLayers)
}

// loadOptional decodes a key into out, leaving out untouched when the
// key is absent.
func (s *Store) loadOptional(key string, out interface{}) error {
	data, err := s.db.Get(key)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.CoilMapLoadError("auxiliary table decode failed", err).
			SetContext("key", key)
	}
	return nil
}
