package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinuteSeconds = 60
	HourSeconds   = 3600
)

// PerfPattern matches timed performances: M:SS, MM:SS or H:MM:SS.
var PerfPattern = regexp.MustCompile(`^\d+:\d{2}(:\d{2})?$`)

// ParsePerf converts a timed performance into total seconds.
func ParsePerf(perf string) (int, error) {
	p := strings.TrimSpace(perf)
	if !PerfPattern.MatchString(p) {
		return 0, fmt.Errorf("performance %q is not a time: %w", perf, ErrParse)
	}

	parts := strings.Split(p, ":")
	total := 0
	mul := 1
	for i := len(parts) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, fmt.Errorf("performance %q: %w", perf, ErrParse)
		}
		total += n * mul
		mul *= MinuteSeconds
	}
	return total, nil
}

// FormatSeconds renders MM:SS below an hour and H:MM:SS from an hour up.
func FormatSeconds(total int) string {
	if total < HourSeconds {
		return fmt.Sprintf("%02d:%02d", total/MinuteSeconds, total%MinuteSeconds)
	}
	hours := total / HourSeconds
	minutes := (total % HourSeconds) / MinuteSeconds
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, total%MinuteSeconds)
}

// FormatThreshold renders a minute threshold as a column title ("< 30", "< 1:05").
func FormatThreshold(minutes int) string {
	if minutes >= MinuteSeconds {
		return fmt.Sprintf("< %d:%02d", minutes/MinuteSeconds, minutes%MinuteSeconds)
	}
	return fmt.Sprintf("< %d", minutes)
}
