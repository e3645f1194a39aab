package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	glyphExpired  = "⛔ Expired"
	glyphUpcoming = "⚠️ Upcoming"
)

// VehicleDeadlines pairs a vehicle with its deadlines in storage order.
type VehicleDeadlines struct {
	Vehicle   Vehicle
	Deadlines []Deadline
}

// BuildDigest renders the daily deadline digest for one user over the
// vehicles in their scope. Only expired and upcoming deadlines qualify;
// unparsable dates are skipped. The second return is false when nothing
// qualifies, so callers never send an empty message.
func BuildDigest(u User, vehicles []VehicleDeadlines, today time.Time) (string, bool) {
	var items []string
	for _, vd := range vehicles {
		for _, d := range vd.Deadlines {
			due, err := ParseDate(d.Date)
			if err != nil {
				continue
			}
			var glyph string
			switch Classify(due, today) {
			case StatusExpired:
				glyph = glyphExpired
			case StatusUpcoming:
				glyph = glyphUpcoming
			default:
				continue
			}
			items = append(items, fmt.Sprintf("%s %s – %s on %s (%s)",
				vd.Vehicle.Brand, vd.Vehicle.Plate, d.Type, d.Date, glyph))
		}
	}
	if len(items) == 0 {
		return "", false
	}
	name := u.Username
	if u.IsAdmin {
		name = "Admin"
	}
	return "📣 Deadlines for " + name + ":\n" + strings.Join(items, "\n"), true
}
