package jobcontext

import (
	"context"
	"strings"
	"time"
)

type keyContext string

var (
	keySessionID     keyContext = "session_id"
	keyChunkSequence keyContext = "chunk_sequence"
	keyRetryAttempt  keyContext = "retry_attempt"
	keyChunkReceived keyContext = "chunk_received"
)

// ChunkMetadata holds metadata for one chunk processing job
type ChunkMetadata struct {
	SessionID     string
	ChunkSequence uint64
	RetryAttempt  int
	Received      time.Time
}

// ChunkBegin initializes a chunk processing context with metadata. No
// deadline is attached; timeout policy belongs to the caller that owns the
// parent context.
func ChunkBegin(parentCtx context.Context, sessionID string, sequence uint64) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parentCtx)

	ctx = context.WithValue(ctx, keySessionID, sessionID)
	ctx = context.WithValue(ctx, keyChunkSequence, sequence)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyChunkReceived, time.Now())

	return ctx, cancel
}

// GetSessionID extracts the session id from context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(keySessionID).(string)
	return sessionID, ok
}

// GetChunkSequence extracts the chunk sequence from context
func GetChunkSequence(ctx context.Context) (uint64, bool) {
	seq, ok := ctx.Value(keyChunkSequence).(uint64)
	return seq, ok
}

// GetRetryAttempt extracts the current retry attempt from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt updates the retry attempt in context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetChunkMetadata extracts all chunk metadata from context
func GetChunkMetadata(ctx context.Context) *ChunkMetadata {
	sessionID, _ := GetSessionID(ctx)
	sequence, _ := GetChunkSequence(ctx)
	received, _ := ctx.Value(keyChunkReceived).(time.Time)

	return &ChunkMetadata{
		SessionID:     sessionID,
		ChunkSequence: sequence,
		RetryAttempt:  GetRetryAttempt(ctx),
		Received:      received,
	}
}

// IsRetryableError checks if an error should trigger a retry.
// Retryable errors include network errors, timeouts, and rate limits.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}

// IsNonRetryableError checks if an error should NOT trigger a retry
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Client errors (4xx except 429)
	if strings.Contains(errStr, "400") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "bad request") {
		return true
	}

	// Data validation errors
	if strings.Contains(errStr, "validation failed") ||
		strings.Contains(errStr, "malformed") ||
		strings.Contains(errStr, "parse error") {
		return true
	}

	return false
}

// CalculateBackoff calculates exponential backoff duration
func CalculateBackoff(attempt int, baseDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// 2^attempt * baseDelay, max 60 seconds
	backoff := time.Duration(1<<uint(attempt)) * baseDelay

	maxBackoff := 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}
