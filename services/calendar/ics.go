// File: services/calendar/ics.go
package calendar

import (
	"time"

	"apptbot/models"

	ical "github.com/arran4/golang-ical"
)

const icsProductID = "-//apptbot//appointment booking//EN"

// BuildInvite renders a confirmed booking as a single-event iCalendar document.
func BuildInvite(conf *models.Confirmation, uid string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ical.MethodPublish)

	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(stamp)
	ev.SetCreatedTime(stamp)
	ev.SetStartAt(conf.Start)
	ev.SetEndAt(conf.End)
	ev.SetSummary(conf.Summary)
	ev.SetDescription(conf.Message())
	if conf.Link != "" {
		ev.SetURL(conf.Link)
	}
	return cal.Serialize()
}
