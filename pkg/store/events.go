// Event table persistence
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"scswind/pkg/errors"
	"scswind/pkg/events"
	"scswind/pkg/log"
)

// SaveEvents replaces the stored event table. Events are keyed by
// sequence number so the run-time sequencer consumes them in order.
func (s *Store) SaveEvents(evts []events.Event) error {
	removed, err := s.deleteAll(prefixEvent)
	if err != nil {
		return err
	}

	for i, e := range evts {
		data, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, errors.ErrStoreWrite, "event encode failed").
				SetContext("event", e.Name)
		}
		if err := s.set(eventKey(i), data); err != nil {
			return err
		}
	}

	s.logger.Info("event table written", log.Fields{
		"events":  len(evts),
		"removed": removed,
	})
	return nil
}

// LoadEvents reads the stored event table in sequence order.
func (s *Store) LoadEvents() ([]events.Event, error) {
	keys, err := s.keysWithPrefix(prefixEvent)
	if err != nil {
		return nil, err
	}
	sort.Slice(keys, func(i, j int) bool {
		return eventSeq(keys[i]) < eventSeq(keys[j])
	})

	out := make([]events.Event, 0, len(keys))
	for _, key := range keys {
		data, err := s.get(key)
		if err != nil {
			return nil, err
		}
		var e events.Event
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "event decode failed").
				SetContext("key", key)
		}
		out = append(out, e)
	}
	return out, nil
}

func eventKey(seq int) string {
	return fmt.Sprintf("%s%06d", prefixEvent, seq)
}

func eventSeq(key string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(key, prefixEvent))
	return n
}
