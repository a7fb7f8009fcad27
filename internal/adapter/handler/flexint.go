package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Absent, empty and
// non-numeric values read as 0, which is how the intake form has always
// behaved. Set reports whether a usable number was actually supplied.
type FlexInt struct {
	value int
	set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
	} else {
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		*f = FlexInt{value: n, set: true}
		return nil
	}
	if fl, err := strconv.ParseFloat(text, 64); err == nil {
		*f = FlexInt{value: int(fl), set: true}
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(f.value)), nil
}

func (f FlexInt) Int() int { return f.value }

func (f FlexInt) Set() bool { return f.set }

// Ptr returns nil when nothing usable was supplied.
func (f FlexInt) Ptr() *int {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}
