package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a string that may be absent. Absent is distinct from the empty
// string: an upstream "" is present-and-empty, an upstream null is absent.
// The zero value is absent.
type Optional struct {
	value   string
	present bool
}

// Some returns a present Optional holding s.
func Some(s string) Optional {
	return Optional{value: s, present: true}
}

// Absent returns an Optional with no value.
func Absent() Optional {
	return Optional{}
}

// FromPtr converts a nullable string, as produced by JSON decoding, to an Optional.
func FromPtr(p *string) Optional {
	if p == nil {
		return Absent()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Optional) IsPresent() bool {
	return o.present
}

// Or returns the held value, or fallback when absent.
func (o Optional) Or(fallback string) string {
	if !o.present {
		return fallback
	}
	return o.value
}

// String renders absent as the empty string.
func (o Optional) String() string {
	return o.value
}

// MarshalJSON encodes absent as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Absent()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Some(s)

	return nil
}
