package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateOnly is the layout an HTML date input submits
const dateOnly = "2006-01-02"

// Date is a timestamp that also accepts a bare calendar day, read as midnight UTC
type Date struct {
	time.Time
}

// NewDate wraps t
func NewDate(t time.Time) Date { return Date{Time: t} }

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	for _, layout := range []string{time.RFC3339Nano, dateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}
