package codec

import (
	"fmt"
	"math"
	"time"
)

// Char is a 16-bit character code unit. It is a distinct type so that it
// resolves to its own tag family rather than to uint16.
type Char uint16

// Currency is a fixed-point amount with four implied decimal places.
type Currency int64

// CurrencyScale is the raw value of one currency unit.
const CurrencyScale = 10000

// CurrencyFromFloat rounds f to the nearest representable Currency.
func CurrencyFromFloat(f float64) Currency {
	return Currency(math.Round(f * CurrencyScale))
}

func (c Currency) Float64() float64 { return float64(c) / CurrencyScale }

func (c Currency) String() string {
	sign := ""
	u := uint64(c)
	if c < 0 {
		sign = "-"
		u = uint64(-(c + 1)) + 1 // MinInt64 safe
	}
	return fmt.Sprintf("%s%d.%04d", sign, u/CurrencyScale, u%CurrencyScale)
}

// DateTime is an instant counted in 100-nanosecond ticks since 0001-01-01T00:00:00 UTC.
// The zero value is that epoch.
type DateTime int64

const (
	ticksPerSecond = 10_000_000
	nanosPerTick   = 100
	// seconds between 0001-01-01 and 1970-01-01
	unixToInternal = 62135596800
)

// NewDateTime converts t to ticks, truncating below 100ns.
func NewDateTime(t time.Time) DateTime {
	return DateTime((t.Unix()+unixToInternal)*ticksPerSecond + int64(t.Nanosecond()/nanosPerTick))
}

func (d DateTime) Ticks() int64 { return int64(d) }
func (d DateTime) IsZero() bool { return d == 0 }

// Time returns the instant as a UTC time.Time.
func (d DateTime) Time() time.Time {
	ticks := int64(d)
	sec := ticks/ticksPerSecond - unixToInternal
	nsec := (ticks % ticksPerSecond) * nanosPerTick
	return time.Unix(sec, nsec).UTC()
}

func (d DateTime) String() string { return d.Time().Format(time.RFC3339Nano) }
