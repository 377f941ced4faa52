package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qrtable/tableside/models"
	"github.com/qrtable/tableside/utils"
)

var ErrInvalidSessionToken = errors.New("invalid or expired session token")

// SessionClaims adalah isi token session yang diterbitkan backend saat token
// QR sekali-pakai ditukarkan. ID registered claim dipakai sebagai session id.
type SessionClaims struct {
	TableID     string `json:"table_id"`
	TableNumber string `json:"table_number"`
	jwt.RegisteredClaims
}

// Redeem memvalidasi token session hasil redemption lalu menyimpannya sebagai
// record session aktif. Token yang rusak atau kadaluarsa tidak menghasilkan
// session sama sekali (tidak pernah ada session parsial).
func (m *Manager) Redeem(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		utils.ErrorLogger.Printf("Session token rejected: %v", err)
		return ErrInvalidSessionToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return ErrInvalidSessionToken
	}

	if claims.ID == "" || claims.ExpiresAt == nil || claims.TableID == "" {
		return ErrInvalidSessionToken
	}

	m.Set(models.Session{
		SessionID:   claims.ID,
		TableID:     claims.TableID,
		TableNumber: claims.TableNumber,
		ExpiresAt:   claims.ExpiresAt.Time,
	})

	utils.InfoLogger.Printf("Session %s established for table %s", claims.ID, claims.TableNumber)
	return nil
}
