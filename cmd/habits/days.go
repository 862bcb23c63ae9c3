// ABOUTME: Parsing for the --days flag shared by add and edit.
// ABOUTME: Accepts comma-separated weekday names plus daily/weekday/weekend aliases.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/habits/internal/models"
)

var dayNames = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// parseDays turns "mon,wed,fri" (or "daily", "weekdays", "weekends") into a
// schedule.
func parseDays(spec string) (models.Schedule, error) {
	var s models.Schedule
	for _, raw := range strings.Split(spec, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		switch token {
		case "":
			continue
		case "daily", "all":
			for i := range s {
				s[i] = true
			}
		case "weekdays":
			for i := 1; i <= 5; i++ {
				s[i] = true
			}
		case "weekends":
			s[0], s[6] = true, true
		default:
			idx, ok := dayNames[token]
			if !ok {
				return s, fmt.Errorf("unknown day %q (use sun..sat, daily, weekdays, weekends)", raw)
			}
			s[idx] = true
		}
	}
	if s.Empty() {
		return s, fmt.Errorf("no days given")
	}
	return s, nil
}
