package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const unsubscribeAudience = "newsletter-unsubscribe"

// UnsubscribeClaims identify the subscriber an unsubscribe link belongs to.
type UnsubscribeClaims struct {
	SubscriberID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewUnsubscribeToken signs a token for the unsubscribe link of one
// subscriber. Tokens do not expire so links in old issues keep working.
func NewUnsubscribeToken(secret []byte, subscriberID, email string, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("unsubscribe secret not configured")
	}
	claims := UnsubscribeClaims{
		SubscriberID: subscriberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			Audience: jwt.ClaimStrings{unsubscribeAudience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign unsubscribe token: %w", err)
	}
	return signed, nil
}

// ParseUnsubscribeToken verifies the signature and audience of token.
func ParseUnsubscribeToken(secret []byte, token string) (*UnsubscribeClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("unsubscribe secret not configured")
	}
	claims := &UnsubscribeClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(unsubscribeAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid unsubscribe token: %w", err)
	}
	if claims.SubscriberID == "" {
		return nil, errors.New("invalid unsubscribe token: missing subscriber")
	}
	return claims, nil
}
