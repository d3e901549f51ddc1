package silver

import (
	"strings"
	"time"

	"github.com/kpilake/kpilake/pkg/table"
)

// dateLayouts are tried in order. Slash dates are month first, the way
// the upstream extracts are produced.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"20060102",
	"2006-01",
}

// parseDate converts a raw cell into a UTC time. The second value is
// false when the cell is not null but cannot be parsed.
func parseDate(v any) (any, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return nil, true
	case time.Time:
		return x.UTC(), true
	case string:
		s = strings.TrimSpace(x)
	default:
		s = table.Format(x)
	}
	if s == "" {
		return nil, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return nil, false
}
