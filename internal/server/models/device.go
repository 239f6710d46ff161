package models

import "time"

// Device is a push registration of one device of a user.
type Device struct {
	UserID    string
	DeviceID  string
	Token     string
	UpdatedAt time.Time
}
