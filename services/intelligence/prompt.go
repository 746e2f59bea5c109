// File: services/intelligence/prompt.go
package ai

import (
	"fmt"
	"strings"
	"time"
)

const extractionPromptTemplate = `You are an AI that extracts calendar appointments in structured JSON.

Current time: %s (%s)

Return ONLY a JSON object, no markdown and no explanation, with exactly these keys:
- summary: short title of the appointment, or null
- start_time: ISO 8601 date-time with UTC offset, e.g. "%s", or null
- end_time: ISO 8601 date-time with UTC offset if the user gave an explicit end time, else null
- duration_minutes: integer length in minutes if the user gave a duration, else null
- timezone: IANA timezone name (like "Asia/Tokyo") if the user named a place or timezone, else null

If the user did not mention a year, use the current year: %d.
If data is missing, set the value to null.
%s
Request:
%s
`

// BuildExtractionPrompt embeds the resolved request text and the required JSON shape.
// missing lists fields an earlier attempt left empty; it is nil on the first attempt.
func BuildExtractionPrompt(resolved string, now time.Time, loc *time.Location, missing []string) string {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	example := time.Date(local.Year(), local.Month(), local.Day(), 15, 0, 0, 0, loc).Format(time.RFC3339)

	var reminder string
	if len(missing) > 0 {
		reminder = fmt.Sprintf("\nYour previous answer did not include: %s. Read the request again and fill them in.\n",
			strings.Join(missing, ", "))
	}

	return fmt.Sprintf(extractionPromptTemplate,
		local.Format(time.RFC3339), loc.String(), example, local.Year(), reminder, strings.TrimSpace(resolved))
}
