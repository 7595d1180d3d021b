package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthDate is a calendar month, the precision used for resume dates
type MonthDate struct {
	Year  int
	Month time.Month
}

// After reports whether d falls after other
func (d MonthDate) After(other MonthDate) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	return d.Month > other.Month
}

// Label formats the date as "Jan 2020"
func (d MonthDate) Label() string {
	return fmt.Sprintf("%s %d", d.Month.String()[:3], d.Year)
}

// ParseMonthDate parses YYYY-MM, YYYY-MM-DD or YYYY. A bare year maps to January, or to
// December when end is set. Empty input and "present" report ok=false with no error.
func ParseMonthDate(value string, end bool) (date MonthDate, ok bool, err error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "present") {
		return MonthDate{}, false, nil
	}

	parts := strings.Split(v, "-")
	if len(parts) > 3 || len(parts[0]) != 4 {
		return MonthDate{}, false, fmt.Errorf("invalid date %q: use YYYY-MM", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return MonthDate{}, false, fmt.Errorf("invalid date %q: use YYYY-MM", value)
	}

	month := time.January
	if end {
		month = time.December
	}
	if len(parts) >= 2 {
		m, err := strconv.Atoi(parts[1])
		if err != nil || m < 1 || m > 12 || len(parts[1]) != 2 {
			return MonthDate{}, false, fmt.Errorf("invalid month in %q: use YYYY-MM", value)
		}
		month = time.Month(m)
	}
	if len(parts) == 3 {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return MonthDate{}, false, fmt.Errorf("invalid day in %q: use YYYY-MM-DD", value)
		}
	}

	return MonthDate{Year: year, Month: month}, true, nil
}
