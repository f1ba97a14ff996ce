package registrations

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/internal/users"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
	"github.com/stocknexus/stocknexus-backend/pkg/security"
)

const tempPasswordLength = 12

// SubmitRequest is the public account application payload.
type SubmitRequest struct {
	Email         string           `json:"email" validate:"required,email"`
	FullName      string           `json:"full_name" validate:"required"`
	Department    enums.Department `json:"department" validate:"required"`
	RequestedRole enums.Role       `json:"requested_role" validate:"required"`
}

// ApprovalResult carries the approved request and the one-time password for
// the new account. The password is never persisted in clear.
type ApprovalResult struct {
	Request      *models.RegistrationRequest `json:"request"`
	TempPassword string                      `json:"temp_password"`
}

// ListParams configures registration request listing.
type ListParams struct {
	Status *enums.RegistrationStatus
	Limit  int
	Cursor string
}

// ListResult wraps returned requests and the cursor for the next page.
type ListResult struct {
	Items  []models.RegistrationRequest `json:"items"`
	Cursor string                       `json:"cursor"`
}

// Service runs the registration approval workflow.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.RegistrationRequest, error)
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
	Approve(ctx context.Context, actor authz.Actor, id uuid.UUID) (*ApprovalResult, error)
	Reject(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.RegistrationRequest, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages registration dependencies.
type ServiceParams struct {
	DB          txRunner
	Repo        Repository
	Users       users.Repository
	PasswordCfg config.PasswordConfig
	Logger      *logger.Logger
}

type service struct {
	db          txRunner
	repo        Repository
	users       users.Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService wires registration dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "registration repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		db:          params.DB,
		repo:        params.Repo,
		users:       params.Users,
		passwordCfg: params.PasswordCfg,
		logg:        params.Logger,
	}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*models.RegistrationRequest, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if !req.Department.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}
	// Admin accounts are provisioned manually, never through self-registration.
	if req.RequestedRole != enums.RoleHOD && req.RequestedRole != enums.RoleStaff {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested role must be hod or staff")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing account")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a registration request for this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing request")
	}

	request := &models.RegistrationRequest{
		ID:            uuid.New(),
		Email:         email,
		FullName:      req.FullName,
		Department:    req.Department,
		RequestedRole: req.RequestedRole,
		Status:        enums.RegistrationStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registration request")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"request_id": request.ID, "department": request.Department, "role": request.RequestedRole,
	}), "registration request submitted")
	return request, nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !authz.CanReviewRegistration(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	query := listRegistrationParams{Status: params.Status, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registration requests")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, id uuid.UUID) (*ApprovalResult, error) {
	request, err := s.loadForReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.RegistrationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request has already been reviewed")
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temporary password")
	}

	now := time.Now().UTC()
	reviewer := actor.UserID
	request.Status = enums.RegistrationStatusApproved
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &now

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update registration request")
		}
		userRepo := s.users.WithTx(tx)
		user := &models.User{
			ID:           uuid.New(),
			Email:        request.Email,
			FullName:     request.FullName,
			PasswordHash: hash,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
		}
		role := &models.UserRole{
			UserID:     user.ID,
			Role:       request.RequestedRole,
			Department: request.Department,
		}
		if err := userRepo.CreateRole(ctx, role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign role")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"request_id": request.ID, "department": request.Department, "role": request.RequestedRole,
	}), "registration request approved")
	return &ApprovalResult{Request: request, TempPassword: tempPassword}, nil
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.RegistrationRequest, error) {
	request, err := s.loadForReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.RegistrationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request has already been reviewed")
	}

	now := time.Now().UTC()
	reviewer := actor.UserID
	request.Status = enums.RegistrationStatusRejected
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &now
	if err := s.repo.Update(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update registration request")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"request_id": request.ID,
	}), "registration request rejected")
	return request, nil
}

// Delete removes a request. Only rejected requests may be deleted; pending and
// approved rows are part of the audit trail.
func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	request, err := s.loadForReview(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authz.CanDeleteRegistrationRequest(actor, request.Status) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only rejected requests may be deleted")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete registration request")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "registration request not found")
	}
	return nil
}

func (s *service) loadForReview(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.RegistrationRequest, error) {
	if !authz.CanReviewRegistration(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registration request")
	}
	return request, nil
}
