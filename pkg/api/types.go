package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ndgm-hq/ndgm-rfid-client/pkg/session"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	IDNumber string `json:"idNumber"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	Role     string `json:"role"`
}

// RegisterResponse is the server's reply to a registration.
type RegisterResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// ScanRequest is the body of POST /api/logs/scan.
type ScanRequest struct {
	UserIDNumber  string `json:"userIdNumber"`
	RFIDScannerID string `json:"rfidScannerId"`
}

// ScanResponse is the server's reply to a badge scan.
type ScanResponse struct {
	Message string    `json:"message,omitempty"`
	Action  string    `json:"action,omitempty"`
	User    *UserRef  `json:"user,omitempty"`
	Log     *LogEntry `json:"log,omitempty"`
}

// LogEntry is one access log record.
type LogEntry struct {
	ID            session.ID `json:"id,omitempty"`
	UserIDNumber  string     `json:"userIdNumber,omitempty"`
	RFIDScannerID string     `json:"rfidScannerId,omitempty"`
	Action        string     `json:"action,omitempty"`
	Timestamp     Timestamp  `json:"timestamp,omitempty"`
	User          *UserRef   `json:"user,omitempty"`
}

// Timestamp is kept as sent by the server: an ISO string or epoch
// milliseconds rendered as decimal text.
type Timestamp string

// UnmarshalJSON accepts a string, a number or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var id session.ID
	if err := id.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("timestamp must be a string or number: %w", err)
	}
	*ts = Timestamp(id)
	return nil
}

// UserRef is a user embedded in a record, either populated or as a bare id.
type UserRef struct {
	ID   session.ID
	User *User
}

// UnmarshalJSON accepts a user object, a string or number id, or null.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var u User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		*r = UserRef{ID: u.ID, User: &u}
		return nil
	}
	var id session.ID
	if err := id.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("user must be an object or id: %w", err)
	}
	*r = UserRef{ID: id}
	return nil
}

// MarshalJSON writes the populated user, or the bare id.
func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r.ID))
}

// LogQuery is a flat set of query parameters for GetLogs, e.g. {"from": "2024-01-01"}.
type LogQuery map[string]string
