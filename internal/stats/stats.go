package stats

import (
	"math"

	"checkin/entity"
)

// Compute aggregates the dashboard counters. Utilization is the share of
// used invitations in percent, rounded to one decimal, and 0 when no
// invitation exists.
func Compute(graduates []entity.Graduate, invitations []entity.Invitation) entity.Stats {
	s := entity.Stats{
		Graduates:   len(graduates),
		Invitations: len(invitations),
	}
	for _, inv := range invitations {
		if inv.IsUsed() {
			s.Used++
		}
		switch inv.Kind {
		case entity.KindFull:
			s.Full++
		case entity.KindHalf:
			s.Half++
		}
	}
	s.Active = s.Invitations - s.Used
	s.Utilization = Percent(s.Used, s.Invitations)
	return s
}

func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
