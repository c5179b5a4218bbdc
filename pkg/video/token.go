package video

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
)

var signingMethod = jwt.SigningMethodHS256

// RoomClaims grants access to one stream room. Hosts may publish; viewers only
// subscribe.
type RoomClaims struct {
	RoomID     string `json:"room_id"`
	Identity   string `json:"identity"`
	CanPublish bool   `json:"can_publish"`
	jwt.RegisteredClaims
}

// MintRoomToken issues a short-lived token for joining the given room.
func MintRoomToken(cfg config.VideoConfig, now time.Time, roomID, identity string, canPublish bool) (string, error) {
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return "", fmt.Errorf("video token secret is required")
	}
	if strings.TrimSpace(roomID) == "" {
		return "", fmt.Errorf("room id is required")
	}
	if strings.TrimSpace(identity) == "" {
		return "", fmt.Errorf("identity is required")
	}
	validity := cfg.TokenValidity
	if validity <= 0 {
		validity = 4 * time.Hour
	}

	claims := RoomClaims{
		RoomID:     roomID,
		Identity:   identity,
		CanPublish: canPublish,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("signing room token: %w", err)
	}
	return signed, nil
}

// ParseRoomToken validates a room token and returns its claims.
func ParseRoomToken(cfg config.VideoConfig, tokenString string) (*RoomClaims, error) {
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, fmt.Errorf("video token secret is required")
	}

	claims := &RoomClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.TokenSecret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.TokenIssuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
