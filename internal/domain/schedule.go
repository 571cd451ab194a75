package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DigestSchedule is one user's automatic digest configuration. LastSent is
// updated exclusively by the schedule engine after a successful send.
type DigestSchedule struct {
	UserID       int64      `db:"user_id"`
	Enabled      bool       `db:"enabled"`
	ScheduleTime string     `db:"schedule_time"`
	LastSent     *time.Time `db:"last_sent"`
}

// Zero-padded 24h clock. The delivery tick matches schedule_time by string
// equality against time.Now().Format("15:04"), so "9:00" must be rejected.
var scheduleTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateScheduleTime checks that s is a valid HH:MM schedule time.
func ValidateScheduleTime(s string) error {
	if !scheduleTimePattern.MatchString(s) {
		return fmt.Errorf("invalid schedule time %q, expected HH:MM (24h, zero-padded)", s)
	}
	return nil
}

// CollectStats holds statistics about one collection run.
type CollectStats struct {
	Fetched      int
	Unique       int
	Saved        int
	Duplicates   int
	SourceErrors int
	SaveErrors   int
	Duration     time.Duration
}
