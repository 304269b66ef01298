package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded keyset cursor from an entry date and its ledger sequence.
// This is used for consistent pagination across the ledger store implementations.
func EncodeToken(entryDate time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", entryDate.Format(timeFormat), sequence)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into entry date and sequence.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}

	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return entryDate, sequence, nil
}

// Before reports whether (date, sequence) sorts strictly before the cursor position
// in newest-first order, i.e. whether it belongs on a page after the cursor.
func Before(date time.Time, sequence int64, cursorDate time.Time, cursorSequence int64) bool {
	if date.Equal(cursorDate) {
		return sequence < cursorSequence
	}
	return date.Before(cursorDate)
}
