// Keyed-store boundary
//
// Coil maps come in and schedules go out through a key/value store
// shared with the machine run time. The store is a hord.Database: the
// hashmap driver (optionally file-backed) serves local runs and tests,
// the redis driver serves the shared machine store. Every table lives
// under its own key prefix so a regeneration can clear just its own
// rows.
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package store

import (
	"strings"

	"github.com/tarmac-project/hord"
	"github.com/tarmac-project/hord/drivers/hashmap"
	"github.com/tarmac-project/hord/drivers/redis"

	"scswind/pkg/config"
	"scswind/pkg/errors"
	"scswind/pkg/log"
	"scswind/pkg/metrics"
)

// Key prefixes. The run-time sequencer reads the same layout.
const (
	prefixSchedule = "scs:pos:"
	prefixDerived  = "cls:pos:"
	prefixEvent    = "event:"
	prefixCoilMap  = "coilmap:"
)

// Store wraps a hord database with the planner's table layout.
type Store struct {
	db     hord.Database
	logger *log.Logger
}

// Open connects a store from the [store] config section. The driver
// option picks hashmap (default) or redis; hashmap takes an optional
// file to persist to, redis takes server and password.
func Open(cfg *config.Config) (*Store, error) {
	sec, err := cfg.GetSection("store")
	if err != nil {
		return nil, err
	}

	driver, err := sec.GetChoice("driver", []string{"hashmap", "redis"}, "hashmap")
	if err != nil {
		return nil, err
	}

	var db hord.Database
	switch driver {
	case "hashmap":
		file, err := sec.Get("file", "")
		if err != nil {
			return nil, err
		}
		db, err = hashmap.Dial(hashmap.Config{Filename: file})
		if err != nil {
			return nil, errors.StoreSetupError(driver, err)
		}
	case "redis":
		server, err := sec.Get("server", "127.0.0.1:6379")
		if err != nil {
			return nil, err
		}
		password, err := sec.Get("password", "")
		if err != nil {
			return nil, err
		}
		db, err = redis.Dial(redis.Config{Server: server, Password: password})
		if err != nil {
			return nil, errors.StoreSetupError(driver, err)
		}
	}

	if err := db.Setup(); err != nil {
		return nil, errors.StoreSetupError(driver, err)
	}
	if err := db.HealthCheck(); err != nil {
		return nil, errors.StoreSetupError(driver, err)
	}

	s := &Store{db: db, logger: log.GetLogger("store")}
	s.logger.Info("store opened", log.Fields{"driver": driver})
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) set(key string, data []byte) error {
	if err := s.db.Set(key, data); err != nil {
		return errors.StoreWriteError(key, err)
	}
	metrics.StoreWrites.Inc(metrics.Labels{"prefix": keyPrefix(key)})
	return nil
}

func (s *Store) get(key string) ([]byte, error) {
	data, err := s.db.Get(key)
	if err != nil {
		return nil, errors.StoreQueryError(key, err)
	}
	return data, nil
}

// keysWithPrefix scans the key space for one table's keys.
func (s *Store) keysWithPrefix(prefix string) ([]string, error) {
	all, err := s.db.Keys()
	if err != nil {
		return nil, errors.StoreQueryError(prefix+"*", err)
	}
	var out []string
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// deleteAll clears one table. Returns the number of keys removed.
func (s *Store) deleteAll(prefix string) (int, error) {
	keys, err := s.keysWithPrefix(prefix)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := s.db.Delete(k); err != nil {
			return i, errors.StoreWriteError(k, err)
		}
	}
	return len(keys), nil
}

func keyPrefix(key string) string {
	if idx := strings.IndexByte(key, ':'); idx >= 0 {
		return key[:idx+1]
	}
	return key
}
