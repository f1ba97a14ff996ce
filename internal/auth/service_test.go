package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/internal/users"
	pkgauth "github.com/stocknexus/stocknexus-backend/pkg/auth"
	"github.com/stocknexus/stocknexus-backend/pkg/auth/session"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*models.User
	roles map[uuid.UUID]*models.UserRole

	updatedHash string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[string]*models.User{},
		roles: map[uuid.UUID]*models.UserRole{},
	}
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) users.Repository { return f }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	f.updatedHash = hash
	return nil
}

func (f *fakeUserRepo) CreateRole(ctx context.Context, role *models.UserRole) error {
	f.roles[role.UserID] = role
	return nil
}

func (f *fakeUserRepo) GetRole(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	generated []string
	revoked   []string
	rotateFn  func(ctx context.Context, oldAccessID, provided string) (string, string, error)
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateFn != nil {
		return f.rotateFn(ctx, oldAccessID, provided)
	}
	return "", "", session.ErrInvalidRefreshToken
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "stocknexus-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestService(t *testing.T, repo users.Repository, sessions sessionManager) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Users:       repo,
		Sessions:    sessions,
		JWT:         testJWTConfig(),
		PasswordCfg: config.PasswordConfig{},
		Logger:      testLogger(),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role enums.Role, dept enums.Department) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: email, FullName: "Test User", PasswordHash: hash}
	repo.users[email] = user
	repo.roles[user.ID] = &models.UserRole{UserID: user.ID, Role: role, Department: dept}
	return user
}

func TestLoginIssuesSessionBoundToken(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "hod@example.edu", "s3cret-pw", enums.RoleHOD, enums.DepartmentPhysics)
	sessions := &fakeSessions{}
	svc := newTestService(t, repo, sessions)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "hod@example.edu", Password: "s3cret-pw"})
	require.NoError(t, err)
	require.Len(t, sessions.generated, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.RoleHOD, claims.Role)
	assert.Equal(t, enums.DepartmentPhysics, claims.Department)
	// jti is the redis session key
	assert.Equal(t, sessions.generated[0], claims.ID)
	assert.Equal(t, "refresh-"+claims.ID, result.Tokens.RefreshToken)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "hod@example.edu", "s3cret-pw", enums.RoleHOD, enums.DepartmentPhysics)
	svc := newTestService(t, repo, &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "hod@example.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.edu", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginWithoutRoleIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "orphan@example.edu", "s3cret-pw", enums.RoleStaff, enums.DepartmentIT)
	delete(repo.roles, user.ID)
	svc := newTestService(t, repo, &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "orphan@example.edu", Password: "s3cret-pw"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "staff@example.edu", "s3cret-pw", enums.RoleStaff, enums.DepartmentCSE)

	oldAccessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID, Role: enums.RoleStaff, Department: enums.DepartmentCSE, JTI: oldAccessID,
	})
	require.NoError(t, err)

	newAccessID := session.NewAccessID()
	sessions := &fakeSessions{
		rotateFn: func(ctx context.Context, gotOld, provided string) (string, string, error) {
			assert.Equal(t, oldAccessID, gotOld)
			assert.Equal(t, "refresh-token", provided)
			return newAccessID, "new-refresh-token", nil
		},
	}
	svc := newTestService(t, repo, sessions)

	pair, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-refresh-token", pair.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, newAccessID, claims.ID)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshInvalidTokenIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "staff@example.edu", "s3cret-pw", enums.RoleStaff, enums.DepartmentCSE)

	accessToken, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID, Role: enums.RoleStaff, Department: enums.DepartmentCSE,
	})
	require.NoError(t, err)

	svc := newTestService(t, repo, &fakeSessions{})
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stale-token",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(t, newFakeUserRepo(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "access-id"))
	assert.Equal(t, []string{"access-id"}, sessions.revoked)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "staff@example.edu", "old-password", enums.RoleStaff, enums.DepartmentIT)
	svc := newTestService(t, repo, &fakeSessions{})

	actor := authz.Actor{UserID: user.ID, Role: enums.RoleStaff, Department: enums.DepartmentIT}
	err := svc.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-password",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	err = svc.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	ok, err := security.VerifyPassword("brand-new-password", repo.updatedHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePasswordEnforcesMinimumLength(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "staff@example.edu", "old-password", enums.RoleStaff, enums.DepartmentIT)
	svc := newTestService(t, repo, &fakeSessions{})

	actor := authz.Actor{UserID: user.ID, Role: enums.RoleStaff, Department: enums.DepartmentIT}
	err := svc.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "short",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
