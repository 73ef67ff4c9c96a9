// Unified error handling for the SCS winding planner
//
// Copyright (C) 2026  SCS Winding Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
	"runtime"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigType       ErrorCode = "CONFIG_TYPE"

	// Coil map errors
	ErrCoilMapLoad  ErrorCode = "COILMAP_LOAD"
	ErrCoilMapEmpty ErrorCode = "COILMAP_EMPTY"
	ErrCoilMapQuery ErrorCode = "COILMAP_QUERY"

	// Planner errors
	ErrPlanColumn     ErrorCode = "PLAN_COLUMN"
	ErrPlanJoggle     ErrorCode = "PLAN_JOGGLE"
	ErrPlanTransition ErrorCode = "PLAN_TRANSITION"
	ErrPlanSweep      ErrorCode = "PLAN_SWEEP"

	// Store errors
	ErrStoreSetup ErrorCode = "STORE_SETUP"
	ErrStoreQuery ErrorCode = "STORE_QUERY"
	ErrStoreWrite ErrorCode = "STORE_WRITE"

	// Event generation errors
	ErrEventBuild ErrorCode = "EVENT_BUILD"

	// Runtime errors
	ErrRuntime     ErrorCode = "RUNTIME"
	ErrRuntimeInit ErrorCode = "RUNTIME_INIT"
)

// PlanError is the unified error type for the planner
type PlanError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// File is the source file (if available)
	File string

	// Line is the line number in the source file (if available)
	Line int

	// Section is the config section or context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
}

// Unwrap returns the underlying error
func (e *PlanError) Unwrap() error {
	return e.Err
}

// SetFile sets the source file
func (e *PlanError) SetFile(file string) *PlanError {
	e.File = file
	return e
}

// SetLine sets the line number
func (e *PlanError) SetLine(line int) *PlanError {
	e.Line = line
	return e
}

// SetSection sets the context section
func (e *PlanError) SetSection(section string) *PlanError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *PlanError) SetOption(option string) *PlanError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *PlanError) SetContext(key string, value interface{}) *PlanError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new PlanError
func New(code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
	}
}

// Config errors

// ConfigSectionError creates an error for missing config section
func ConfigSectionError(section string) *PlanError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for missing or invalid config option
func ConfigOptionError(section, option string) *PlanError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *PlanError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *PlanError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Coil map errors

// CoilMapLoadError creates an error for a coil map that could not be read
func CoilMapLoadError(reason string, err error) *PlanError {
	return Wrap(err, ErrCoilMapLoad, fmt.Sprintf("failed to load coil map: %s", reason))
}

// CoilMapEmptyError creates an error for an empty coil map
func CoilMapEmptyError() *PlanError {
	return New(ErrCoilMapEmpty, "coil map contains no feature rows")
}

// CoilMapQueryError creates an error for an unanswerable coil map query
func CoilMapQueryError(query string, angle float64) *PlanError {
	return New(ErrCoilMapQuery, fmt.Sprintf("%s has no answer at angle %.3f", query, angle)).
		SetContext("angle", angle)
}

// Planner errors

// ColumnResolveError creates an error for an angle that maps to no column
func ColumnResolveError(angle float64) *PlanError {
	return New(ErrPlanColumn, fmt.Sprintf("angle %.3f does not resolve to a column azimuth", angle)).
		SetContext("angle", angle)
}

// JoggleClassifyError creates an error for a joggle classification failure
func JoggleClassifyError(angle float64, reason string) *PlanError {
	return New(ErrPlanJoggle, fmt.Sprintf("joggle classification at angle %.3f: %s", angle, reason)).
		SetContext("angle", angle)
}

// TransitionError creates an error for a transition geometry failure
func TransitionError(layer int, reason string) *PlanError {
	return New(ErrPlanTransition, fmt.Sprintf("transition correction for layer %d: %s", layer, reason)).
		SetContext("layer", layer)
}

// SweepError creates an error for a column sweep failure
func SweepError(column int, reason string) *PlanError {
	return New(ErrPlanSweep, fmt.Sprintf("column sweep at iteration %d: %s", column, reason)).
		SetContext("column", column)
}

// Store errors

// StoreSetupError creates an error for store connection or setup failure
func StoreSetupError(driver string, err error) *PlanError {
	return Wrap(err, ErrStoreSetup, fmt.Sprintf("store setup with driver '%s' failed", driver))
}

// StoreQueryError creates an error for a failed store read
func StoreQueryError(key string, err error) *PlanError {
	return Wrap(err, ErrStoreQuery, fmt.Sprintf("store read of '%s' failed", key))
}

// StoreWriteError creates an error for a failed store write
func StoreWriteError(key string, err error) *PlanError {
	return Wrap(err, ErrStoreWrite, fmt.Sprintf("store write of '%s' failed", key))
}

// Event errors

// EventBuildError creates an error for event schedule generation failure
func EventBuildError(event string, reason string) *PlanError {
	return New(ErrEventBuild, fmt.Sprintf("event '%s': %s", event, reason))
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *PlanError {
	return New(ErrRuntime, message)
}

// RuntimeErrorInit creates an error for initialization failure
func RuntimeErrorInit(component string, reason string) *PlanError {
	return New(ErrRuntimeInit, fmt.Sprintf("failed to initialize %s: %s", component, reason))
}

// RecoverPanic safely recovers from panic and converts to error
func RecoverPanic() *PlanError {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = RuntimeError(fmt.Sprintf("panic: %s", x))
		case error:
			err = RuntimeError(x.Error())
		case runtime.Error:
			err = RuntimeError(x.Error())
		default:
			err = RuntimeError(fmt.Sprintf("panic: %v", x))
		}
		return err.(*PlanError)
	}
	return nil
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if planErr, ok := err.(*PlanError); ok {
		return planErr.Code == code
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation) ||
		Is(err, ErrConfigType)
}

// IsCoilMap checks if error is a coil map error
func IsCoilMap(err error) bool {
	return Is(err, ErrCoilMapLoad) ||
		Is(err, ErrCoilMapEmpty) ||
		Is(err, ErrCoilMapQuery)
}

// IsStore checks if error is a store error
func IsStore(err error) bool {
	return Is(err, ErrStoreSetup) ||
		Is(err, ErrStoreQuery) ||
		Is(err, ErrStoreWrite)
}

// IsPlan checks if error is a planner error
func IsPlan(err error) bool {
	return Is(err, ErrPlanColumn) ||
		Is(err, ErrPlanJoggle) ||
		Is(err, ErrPlanTransition) ||
		Is(err, ErrPlanSweep)
}
