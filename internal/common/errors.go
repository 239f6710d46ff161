// Package common defines shared constants and sentinel errors used across
// the scheduler and calendar layers of vivarium. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Configuration errors.
	ErrUnknownPushProvider = errors.New("unknown push provider")
	ErrUnknownIconSource   = errors.New("unknown icon source")

	// Application errors.
	ErrSchedulerNotConfigured = errors.New("scheduler not configured")
	ErrInvalidDevice          = errors.New("user, device and token are required")

	// Calendar errors.
	ErrInvalidRange = errors.New("invalid date range")
)
