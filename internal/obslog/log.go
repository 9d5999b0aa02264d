// SPDX-License-Identifier: Apache-2.0

// Package obslog provides the structured logging posw's callers can plug
// into Generate and Verify calls. It wraps log/slog with a module-scoped
// child-logger convenience, the same shape as the pack's own slog-based
// logger wrapper.
package obslog

import (
	"log/slog"
	"os"
	"time"
)

var defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Default returns the process-wide logger, scoped to the "posw" component.
func Default() *slog.Logger {
	return defaultLogger.With("component", "posw")
}

// SetDefault replaces the process-wide logger used by Default.
func SetDefault(l *slog.Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// GenerateEvent logs a single structured event summarizing a completed
// Generate call.
func GenerateEvent(logger *slog.Logger, difficulty uint8, challengeCount int, proofSize int, elapsed time.Duration, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("posw generate failed", "difficulty", difficulty, "elapsed", elapsed, "error", err)
		return
	}
	logger.Info("posw generate",
		"difficulty", difficulty,
		"challenges", challengeCount,
		"proof_bytes", proofSize,
		"elapsed", elapsed,
	)
}

// VerifyEvent logs a single structured event summarizing a completed
// Verify call.
func VerifyEvent(logger *slog.Logger, difficulty uint8, accepted bool, elapsed time.Duration, reason error) {
	if logger == nil {
		return
	}
	attrs := []any{"difficulty", difficulty, "accepted", accepted, "elapsed", elapsed}
	if reason != nil {
		attrs = append(attrs, "reason", reason)
	}
	logger.Info("posw verify", attrs...)
}
