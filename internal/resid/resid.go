// Package resid generates reservation identifiers.
package resid

import (
	"fmt"
	"strconv"
	"time"
)

// Generate derives a reservation identifier from the creation instant and
// the reservation's target date, in MMDDYY-MMDDYY-HHMMSS form: today's
// date, the target date compacted from MM/DD/YYYY, and the creation time.
// A malformed target date yields a literal 000000 middle segment; the
// date has been validated upstream, so this is a fallback rather than a
// gate. Uniqueness is second-resolution best effort — the store's primary
// key catches the rare same-second collision.
func Generate(now time.Time, reservationDate string) string {
	return fmt.Sprintf("%s-%s-%s",
		now.Format("010206"),
		compactDate(reservationDate),
		now.Format("150405"),
	)
}

func compactDate(s string) string {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return "000000"
	}
	month, err1 := strconv.Atoi(s[0:2])
	day, err2 := strconv.Atoi(s[3:5])
	year, err3 := strconv.Atoi(s[6:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return "000000"
	}
	return fmt.Sprintf("%02d%02d%02d", month, day, year%100)
}
