package models

import "time"

// Session adalah asosiasi client dengan satu meja fisik, diterbitkan oleh
// server saat token QR ditukarkan. Record selalu lengkap: tidak pernah ada
// session tanpa SessionID + ExpiresAt.
type Session struct {
	SessionID   string    `json:"session_id"`
	TableID     string    `json:"table_id"`
	TableNumber string    `json:"table_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}
