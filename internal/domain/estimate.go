package domain

import (
	"fmt"
	"math"
	"time"
)

const estimateOverdueMessage = "Processing is taking longer than expected"

// FormatEstimatedTime renders the time left until estimated, rounded to whole
// minutes (half rounds up).
func FormatEstimatedTime(estimated, now time.Time) string {
	if estimated.Before(now) {
		return estimateOverdueMessage
	}

	minutes := int(math.Round(estimated.Sub(now).Minutes()))
	switch {
	case minutes < 1:
		return "Less than a minute"
	case minutes < 60:
		return pluralize(minutes, "minute")
	}

	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		return pluralize(hours, "hour")
	}

	return pluralize(hours, "hour") + " " + pluralize(remaining, "minute")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
