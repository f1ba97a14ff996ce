package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "stocknexus-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:     userID,
		Role:       enums.RoleHOD,
		Department: enums.DepartmentPhysics,
		JTI:        "session-1",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, claims.UserID)
	}
	if claims.Role != enums.RoleHOD {
		t.Fatalf("expected hod role, got %s", claims.Role)
	}
	if claims.Department != enums.DepartmentPhysics {
		t.Fatalf("expected Physics department, got %s", claims.Department)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %s", claims.ID)
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.Role("superuser"),
		Department: enums.DepartmentIT,
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestMintRejectsInvalidDepartment(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.RoleStaff,
		Department: enums.Department("Astrology"),
	})
	if err == nil {
		t.Fatal("expected error for unknown department")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.RoleAdmin,
		Department: enums.DepartmentIT,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
	if _, err := ParseAccessTokenAllowExpired(cfg, token); err != nil {
		t.Fatalf("expected expired parse to succeed without validation: %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.RoleAdmin,
		Department: enums.DepartmentIT,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature validation failure")
	}
}
