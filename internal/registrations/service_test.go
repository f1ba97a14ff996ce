package registrations

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/internal/users"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	paginationpkg "github.com/stocknexus/stocknexus-backend/pkg/pagination"
	"github.com/stocknexus/stocknexus-backend/pkg/security"
)

type fakeRepository struct {
	createFn      func(ctx context.Context, request *models.RegistrationRequest) error
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error)
	findByEmailFn func(ctx context.Context, email string) (*models.RegistrationRequest, error)
	updateFn      func(ctx context.Context, request *models.RegistrationRequest) error
	deleteFn      func(ctx context.Context, id uuid.UUID) (int64, error)
	listFn        func(ctx context.Context, params listRegistrationParams) ([]models.RegistrationRequest, *paginationpkg.Cursor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, request *models.RegistrationRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, request)
	}
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) (*models.RegistrationRequest, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, request *models.RegistrationRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, request)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeRepository) List(ctx context.Context, params listRegistrationParams) ([]models.RegistrationRequest, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

type fakeUserRepo struct {
	createFn      func(ctx context.Context, user *models.User) error
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createRoleFn  func(ctx context.Context, role *models.UserRole) error
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) users.Repository { return f }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

func (f *fakeUserRepo) CreateRole(ctx context.Context, role *models.UserRole) error {
	if f.createRoleFn != nil {
		return f.createRoleFn(ctx, role)
	}
	return nil
}

func (f *fakeUserRepo) GetRole(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "registrations-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestService(t *testing.T, repo Repository, userRepo users.Repository) Service {
	t.Helper()

	if repo == nil {
		repo = &fakeRepository{}
	}
	if userRepo == nil {
		userRepo = &fakeUserRepo{}
	}
	svc, err := NewService(ServiceParams{
		DB:          fakeTxRunner{},
		Repo:        repo,
		Users:       userRepo,
		PasswordCfg: config.PasswordConfig{},
		Logger:      testLogger(),
	})
	require.NoError(t, err)
	return svc
}

func adminActor() authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleAdmin, Department: enums.DepartmentIT}
}

func hodActor() authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleHOD, Department: enums.DepartmentIT}
}

func pendingRequest(id uuid.UUID) *models.RegistrationRequest {
	return &models.RegistrationRequest{
		ID:            id,
		Email:         "newhire@example.edu",
		FullName:      "New Hire",
		Department:    enums.DepartmentPhysics,
		RequestedRole: enums.RoleStaff,
		Status:        enums.RegistrationStatusPending,
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	var saved *models.RegistrationRequest
	repo := &fakeRepository{
		createFn: func(ctx context.Context, request *models.RegistrationRequest) error {
			saved = request
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	request, err := svc.Submit(context.Background(), SubmitRequest{
		Email:         "New.Hire@Example.edu",
		FullName:      "New Hire",
		Department:    enums.DepartmentPhysics,
		RequestedRole: enums.RoleStaff,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, enums.RegistrationStatusPending, request.Status)
	assert.Equal(t, "new.hire@example.edu", request.Email)
}

func TestSubmitRejectsAdminRole(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Email:         "root@example.edu",
		FullName:      "Root",
		Department:    enums.DepartmentIT,
		RequestedRole: enums.RoleAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitDuplicateAccountEmailConflicts(t *testing.T) {
	userRepo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	svc := newTestService(t, nil, userRepo)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Email:         "taken@example.edu",
		FullName:      "Taken",
		Department:    enums.DepartmentIT,
		RequestedRole: enums.RoleStaff,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestSubmitDuplicateRequestEmailConflicts(t *testing.T) {
	repo := &fakeRepository{
		findByEmailFn: func(ctx context.Context, email string) (*models.RegistrationRequest, error) {
			return pendingRequest(uuid.New()), nil
		},
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Email:         "newhire@example.edu",
		FullName:      "New Hire",
		Department:    enums.DepartmentPhysics,
		RequestedRole: enums.RoleStaff,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestApproveCreatesAccountAndRole(t *testing.T) {
	requestID := uuid.New()
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
			return pendingRequest(requestID), nil
		},
	}
	var createdUser *models.User
	var createdRole *models.UserRole
	userRepo := &fakeUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			createdUser = user
			return nil
		},
		createRoleFn: func(ctx context.Context, role *models.UserRole) error {
			createdRole = role
			return nil
		},
	}
	svc := newTestService(t, repo, userRepo)

	admin := adminActor()
	result, err := svc.Approve(context.Background(), admin, requestID)
	require.NoError(t, err)

	assert.Equal(t, enums.RegistrationStatusApproved, result.Request.Status)
	require.NotNil(t, result.Request.ReviewedBy)
	assert.Equal(t, admin.UserID, *result.Request.ReviewedBy)
	assert.NotNil(t, result.Request.ReviewedAt)

	require.NotNil(t, createdUser)
	assert.Equal(t, "newhire@example.edu", createdUser.Email)
	require.NotNil(t, createdRole)
	assert.Equal(t, createdUser.ID, createdRole.UserID)
	assert.Equal(t, enums.RoleStaff, createdRole.Role)
	assert.Equal(t, enums.DepartmentPhysics, createdRole.Department)

	// the returned password matches the stored hash and nothing else
	require.Len(t, result.TempPassword, 12)
	ok, err := security.VerifyPassword(result.TempPassword, createdUser.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApproveAlreadyReviewedIsStateConflict(t *testing.T) {
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
			request := pendingRequest(id)
			request.Status = enums.RegistrationStatusApproved
			return request, nil
		},
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Approve(context.Background(), adminActor(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestApproveNonAdminDenied(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Approve(context.Background(), hodActor(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRejectStampsReviewer(t *testing.T) {
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
			return pendingRequest(id), nil
		},
	}
	svc := newTestService(t, repo, nil)

	admin := adminActor()
	request, err := svc.Reject(context.Background(), admin, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, enums.RegistrationStatusRejected, request.Status)
	require.NotNil(t, request.ReviewedBy)
	assert.Equal(t, admin.UserID, *request.ReviewedBy)
}

func TestDeleteOnlyRejectedRequests(t *testing.T) {
	status := enums.RegistrationStatusPending
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
			request := pendingRequest(id)
			request.Status = status
			return request, nil
		},
	}
	svc := newTestService(t, repo, nil)
	admin := adminActor()

	err := svc.Delete(context.Background(), admin, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	status = enums.RegistrationStatusApproved
	err = svc.Delete(context.Background(), admin, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	status = enums.RegistrationStatusRejected
	require.NoError(t, svc.Delete(context.Background(), admin, uuid.New()))
}

func TestDeleteNonAdminDenied(t *testing.T) {
	svc := newTestService(t, nil, nil)

	err := svc.Delete(context.Background(), hodActor(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
