// File: services/intelligence/precheck.go
package ai

import (
	"regexp"
	"strings"
)

// ExampleRequest is shown to users whose request could not be understood.
const ExampleRequest = "Schedule a 30-minute meeting with Alex tomorrow at 4 PM in New York"

var (
	timeHintPattern = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)?\b|\b(morning|afternoon|evening|noon|midnight|night|tonight)\b`)
	dateHintPattern = regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday|tonight|next|this|on|` +
		`mon(day)?|tue(s|sday)?|wed(nesday)?|thu(rs|rsday)?|fri(day)?|sat(urday)?|sun(day)?|` +
		`jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sep(t|tember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b|` +
		`\b\d{4}-\d{1,2}-\d{1,2}\b|\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
)

// LooksLikeAppointment is a cheap check that text mentions both a date and a time
// before an oracle call is spent on it.
func LooksLikeAppointment(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return timeHintPattern.MatchString(text) && dateHintPattern.MatchString(text)
}
