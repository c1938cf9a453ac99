package core

import (
	"crypto/rand"
	"math"
	"strconv"
	"strings"
	"time"
)

// Aging bucket display labels, ordered from least to most overdue.
const (
	BucketCurrent = "Current"
	Bucket1To30   = "1-30 Days"
	Bucket31To60  = "31-60 Days"
	Bucket61To90  = "61-90 Days"
	Bucket90Plus  = "90+ Days"
)

// Aging bucket keys, used where reports are keyed rather than displayed.
const (
	BucketKeyCurrent = "current"
	BucketKey1To30   = "1-30"
	BucketKey31To60  = "31-60"
	BucketKey61To90  = "61-90"
	BucketKey90Plus  = "90+"
)

// midnight truncates t to 00:00:00 in its own location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysOverdue returns the calendar-day difference between now and the due
// date, both truncated to midnight. Positive means past due; zero or
// negative means not yet due. The division is rounded up so a partial day
// across a DST boundary still counts as a full day.
func DaysOverdue(now, due time.Time) int {
	diff := midnight(now).Sub(midnight(due.In(now.Location())))
	return int(math.Ceil(diff.Hours() / 24))
}

// AgingBucket maps a due date to its display bucket as of now. Upper
// bounds are inclusive: day 30 is still "1-30 Days", day 31 is "31-60".
func AgingBucket(now, due time.Time) string {
	switch days := DaysOverdue(now, due); {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

// bucketIndex returns 0..4 for current, 1-30, 31-60, 61-90, 90+.
func bucketIndex(daysOverdue int) int {
	switch {
	case daysOverdue <= 0:
		return 0
	case daysOverdue <= 30:
		return 1
	case daysOverdue <= 60:
		return 2
	case daysOverdue <= 90:
		return 3
	default:
		return 4
	}
}

// DeriveStatus is the advisory pure form of status derivation: fully paid
// wins, then partially paid, then overdue, then sent. The persisted status
// is only moved by the payment allocator and the overdue sweep; this
// function is the single rule both consult.
func DeriveStatus(now, due time.Time, total, paid Money) Status {
	switch {
	case paid.Cents >= total.Cents:
		return StatusPaid
	case paid.Cents > 0:
		return StatusPartial
	case DaysOverdue(now, due) > 0:
		return StatusOverdue
	default:
		return StatusSent
	}
}

// FormatShortDate renders a date as short human-readable text,
// e.g. "Jan 5, 2025".
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateInvoiceNumber produces a human-scannable identifier of the form
// INV-<base36 millisecond timestamp>-<4 random base36 chars>, uppercase.
// Collisions are theoretically possible; the storage layer's unique
// constraint on the invoice number is the real guard.
func GenerateInvoiceNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	buf := make([]byte, 4)
	suffix := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to the nanosecond clock if the random source fails
		n := now.UnixNano()
		for i := range suffix {
			suffix[i] = base36[n%36]
			n /= 36
		}
	} else {
		for i, b := range buf {
			suffix[i] = base36[int(b)%36]
		}
	}

	return "INV-" + ts + "-" + string(suffix)
}
