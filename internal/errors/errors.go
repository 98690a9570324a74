package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConfigured is returned when an operation needs the LIFX credential
// or a selected light and one of them is not set yet
var ErrNotConfigured = errors.New("bridge not configured")

// ErrNotFound is returned when a requested resource doesn't exist
var ErrNotFound = errors.New("resource not found")

// ErrInvalidInput is returned when the provided input is invalid
var ErrInvalidInput = errors.New("invalid input")

// ErrDeviceUnavailable is returned when the remote light can't be reached or is not responding
var ErrDeviceUnavailable = errors.New("device unavailable")

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	if err == nil {
		return nil
	}
	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// IsNotConfigured returns true if the error is or wraps ErrNotConfigured
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsNotFound returns true if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDeviceUnavailable returns true if the error is or wraps ErrDeviceUnavailable
func IsDeviceUnavailable(err error) bool {
	return errors.Is(err, ErrDeviceUnavailable)
}

// NotConfiguredf returns a formatted ErrNotConfigured error
func NotConfiguredf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotConfigured)...)
}

// NotFoundf returns a formatted ErrNotFound error
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// DeviceUnavailablef returns a formatted ErrDeviceUnavailable error
func DeviceUnavailablef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDeviceUnavailable)...)
}
