package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a backend identifier. The backend emits numeric ids but strings are accepted too.
type ID string

// UnmarshalJSON accepts JSON numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids as numbers so the backend sees the
// shape it issued. "007" or "+5" stay strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id != "" {
		if v, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(v, 10) == string(id) {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// Number is an integer field the backend may send either as a number or a numeric string.
type Number int

// UnmarshalJSON accepts 2, "2" and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = Number(v)
	return nil
}

func (n Number) String() string {
	return strconv.Itoa(int(n))
}
