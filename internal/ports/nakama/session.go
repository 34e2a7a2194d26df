package nakama

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/heroiclabs/nakama-common/api"
)

// sessionSkew renews sessions slightly before the engine would reject them.
const sessionSkew = time.Minute

// Session carries the bearer token used by REST calls and the realtime
// socket, plus the identity claims baked into it.
type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	Username     string
	ExpiresAt    time.Time
}

// newSession extracts identity and expiry from the engine-issued token.
// The signature is the server's to verify; the client only reads the claims.
func newSession(apiSession *api.Session) (*Session, error) {
	token, _, err := jwt.NewParser().ParseUnverified(apiSession.Token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("parse session token: unexpected claims type %T", token.Claims)
	}
	s := &Session{
		Token:        apiSession.Token,
		RefreshToken: apiSession.RefreshToken,
	}
	if uid, ok := claims["uid"].(string); ok {
		s.UserID = uid
	}
	if usn, ok := claims["usn"].(string); ok {
		s.Username = usn
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// Expired reports whether the token needs renewing at the given time.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt.Add(-sessionSkew))
}
