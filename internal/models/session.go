package models

import "time"

// AdminSession binds a session id (carried in the admin JWT cookie) to the
// backend bearer token obtained at login. The raw token never travels to
// the browser.
type AdminSession struct {
	BaseModel
	SessionID    string    `gorm:"uniqueIndex" json:"session_id"`
	BackendToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}
