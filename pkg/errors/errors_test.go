// Error handling tests
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrPlanSweep, "sweep stalled").SetSection("planner")
	if err.Code != ErrPlanSweep {
		t.Errorf("expected code %s, got %s", ErrPlanSweep, err.Code)
	}
	msg := err.Error()
	if !strings.Contains(msg, "PLAN_SWEEP") {
		t.Errorf("expected code in message, got: %s", msg)
	}
	if !strings.Contains(msg, "sweep stalled") {
		t.Errorf("expected message text, got: %s", msg)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StoreSetupError("redis", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be found by errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestFluentSetters(t *testing.T) {
	err := New(ErrConfigValidation, "out of range").
		SetSection("store").
		SetOption("server").
		SetLine(12).
		SetContext("value", "nowhere:0")

	if err.Section != "store" || err.Option != "server" || err.Line != 12 {
		t.Errorf("setter fields not applied: %+v", err)
	}
	if err.Context["value"] != "nowhere:0" {
		t.Errorf("context not applied: %v", err.Context)
	}
}

func TestConstructorHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  *PlanError
		code ErrorCode
	}{
		{"coilmap empty", CoilMapEmptyError(), ErrCoilMapEmpty},
		{"coilmap query", CoilMapQueryError("floor", 123.4), ErrCoilMapQuery},
		{"column resolve", ColumnResolveError(91.0), ErrPlanColumn},
		{"joggle classify", JoggleClassifyError(500, "no window"), ErrPlanJoggle},
		{"transition", TransitionError(7, "no radius row"), ErrPlanTransition},
		{"store write", StoreWriteError("scs:42", stderrors.New("nope")), ErrStoreWrite},
		{"event build", EventBuildError("hqp-load", "missing zero"), ErrEventBuild},
		{"config option", ConfigOptionError("store", "driver"), ErrConfigOption},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("%s: expected code %s, got %s", tt.name, tt.code, tt.err.Code)
		}
	}
}

func TestIsMatchers(t *testing.T) {
	if !Is(ColumnResolveError(45), ErrPlanColumn) {
		t.Error("Is should match the exact code")
	}
	if Is(ColumnResolveError(45), ErrPlanJoggle) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrPlanColumn) {
		t.Error("Is should not match a non-PlanError")
	}

	if !IsStore(StoreQueryError("coilmap:rows", stderrors.New("gone"))) {
		t.Error("IsStore should match store errors")
	}
	if !IsCoilMap(CoilMapLoadError("bad payload", stderrors.New("json"))) {
		t.Error("IsCoilMap should match coil map errors")
	}
	if !IsPlan(SweepError(200, "no feature")) {
		t.Error("IsPlan should match planner errors")
	}
	if !IsConfig(ConfigSectionError("logging")) {
		t.Error("IsConfig should match config errors")
	}
	if IsStore(ConfigSectionError("logging")) {
		t.Error("IsStore should not match a config error")
	}
}

func TestRecoverPanic(t *testing.T) {
	var got *PlanError
	func() {
		defer func() {
			got = RecoverPanic()
		}()
		panic("joggle window inverted")
	}()

	if got == nil {
		t.Fatal("expected recovered error")
	}
	if got.Code != ErrRuntime {
		t.Errorf("expected ErrRuntime, got %s", got.Code)
	}
	if !strings.Contains(got.Message, "joggle window inverted") {
		t.Errorf("expected panic text in message, got: %s", got.Message)
	}
}
