// File: services/intelligence/dateResolver.go
package ai

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// relativeDayOffsets maps a relative date phrase to its offset in calendar days.
var relativeDayOffsets = map[string]int{
	"day after tomorrow":   2,
	"day before yesterday": -2,
	"tomorrow":             1,
	"today":                0,
	"yesterday":            -1,
}

var relativeDatePattern = compileRelativeDatePattern()

// compileRelativeDatePattern builds one alternation with the longest phrases first,
// so "day after tomorrow" wins over "tomorrow" at the same position.
func compileRelativeDatePattern() *regexp.Regexp {
	phrases := make([]string, 0, len(relativeDayOffsets))
	for p := range relativeDayOffsets {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	alternatives := make([]string, len(phrases))
	for i, p := range phrases {
		alternatives[i] = strings.Join(strings.Fields(p), `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`)
}

// ResolveRelativeDates replaces relative date phrases ("tomorrow", "day after tomorrow", ...)
// with the absolute YYYY-MM-DD date they denote, counted from reference in loc.
// Text without such phrases is returned unchanged.
func ResolveRelativeDates(text string, reference time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	base := reference.In(loc)

	return relativeDatePattern.ReplaceAllStringFunc(text, func(match string) string {
		key := strings.ToLower(strings.Join(strings.Fields(match), " "))
		offset, ok := relativeDayOffsets[key]
		if !ok {
			return match
		}
		return base.AddDate(0, 0, offset).Format("2006-01-02")
	})
}
