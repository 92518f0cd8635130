package utils

/**
 * Key formatting helpers for the Redis pending ledger. Keeping the
 * "pending:{game}:{player}" layout in one place means the writer, the
 * reader and the SCAN pattern can never drift apart.
 */

import "fmt"

func FormatPendingKey(gameCode string, playerID string) string {
	return fmt.Sprintf("pending:%s:%s", gameCode, playerID)
}

func FormatPendingPattern(gameCode string) string {
	return fmt.Sprintf("pending:%s:*", gameCode)
}
