package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IntervalDuration converts a kline interval into a bar duration.
// Accepts Bybit codes ("1", "60", "240", "D", "W", "M") and suffixed forms
// ("5m", "1h", "4h", "1d", "1w").
func IntervalDuration(interval string) (time.Duration, error) {
	s := strings.TrimSpace(interval)
	if s == "" {
		return 0, fmt.Errorf("empty interval")
	}

	switch strings.ToUpper(s) {
	case "D":
		return 24 * time.Hour, nil
	case "W":
		return 7 * 24 * time.Hour, nil
	case "M":
		return 30 * 24 * time.Hour, nil
	}

	if minutes, err := strconv.Atoi(s); err == nil {
		if minutes <= 0 {
			return 0, fmt.Errorf("invalid interval %q", interval)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	unit := strings.ToLower(s[len(s)-1:])
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid interval %q", interval)
	}

	switch unit {
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "w":
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid interval %q", interval)
	}
}

// BybitInterval normalizes an interval to the code the Bybit kline API expects
func BybitInterval(interval string) (string, error) {
	d, err := IntervalDuration(interval)
	if err != nil {
		return "", err
	}
	switch d {
	case 24 * time.Hour:
		return "D", nil
	case 7 * 24 * time.Hour:
		return "W", nil
	case 30 * 24 * time.Hour:
		return "M", nil
	}
	if d%time.Minute != 0 {
		return "", fmt.Errorf("invalid interval %q", interval)
	}
	return strconv.Itoa(int(d / time.Minute)), nil
}
