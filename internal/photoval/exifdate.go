package photoval

import (
	"regexp"
	"strconv"
	"time"
)

// EXIF timestamps use colons in the date part: "2024:06:15 09:30:00".
var exifDatePattern = regexp.MustCompile(`(\d{4}):(\d{2}):(\d{2})\s+(\d{2}):(\d{2}):(\d{2})`)

// fallbackLayouts are tried when a timestamp is not in the canonical EXIF
// form. Some cameras and editors write close-to-ISO strings instead.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEXIFDate parses an EXIF timestamp string into a local date-time.
// Unparseable input reports ok=false; it never produces an error.
func ParseEXIFDate(s string) (time.Time, bool) {
	if parts := exifDatePattern.FindStringSubmatch(s); parts != nil {
		year, _ := strconv.Atoi(parts[1])
		month, _ := strconv.Atoi(parts[2])
		day, _ := strconv.Atoi(parts[3])
		hour, _ := strconv.Atoi(parts[4])
		minute, _ := strconv.Atoi(parts[5])
		second, _ := strconv.Atoi(parts[6])
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
