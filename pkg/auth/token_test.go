package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "growwithgreen",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID:        userID,
		CustomerClass: enums.CustomerClassBusiness,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.CustomerClass != enums.CustomerClassBusiness {
		t.Fatalf("unexpected customer class %s", claims.CustomerClass)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now().UTC()
	payload := AccessTokenPayload{UserID: uuid.New(), CustomerClass: enums.CustomerClassConsumer}

	if _, err := MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, payload); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(config.JWTConfig{Secret: "s", ExpirationMinutes: 1}, now, payload); err == nil {
		t.Fatal("expected error for missing issuer")
	}
	bad := payload
	bad.CustomerClass = "wholesale"
	if _, err := MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "x", ExpirationMinutes: 1}, now, bad); err == nil {
		t.Fatal("expected error for invalid customer class")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	now := time.Now().UTC()
	payload := AccessTokenPayload{UserID: uuid.New(), CustomerClass: enums.CustomerClassConsumer}

	token, err := MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "other", ExpirationMinutes: 5}, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "s", Issuer: "growwithgreen"}, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}
