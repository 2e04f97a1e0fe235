// internal/storage/dbtime.go
package storage

import (
	"fmt"
	"time"
)

var dbTimeLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// dbTime scans timestamps written by this store, by SQLite's CURRENT_TIMESTAMP,
// or already converted to time.Time by the driver.
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
