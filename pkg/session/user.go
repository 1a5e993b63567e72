package session

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a user identifier. Backends return it either as a JSON string or a
// JSON number; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the profile returned by the login endpoint.
type User struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	IDNumber string `json:"idNumber,omitempty"`
	Role     string `json:"role,omitempty"`
}
