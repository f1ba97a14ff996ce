package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	paginationpkg "github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

type fakeRepository struct {
	listFn func(ctx context.Context, params listAlertsParams) ([]models.Alert, *paginationpkg.Cursor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) SumQuantity(ctx context.Context, name string, department enums.Department) (int, error) {
	return 0, nil
}

func (f *fakeRepository) HasUnresolved(ctx context.Context, name string, department enums.Department) (bool, error) {
	return false, nil
}

func (f *fakeRepository) Create(ctx context.Context, alert *models.Alert) error { return nil }

func (f *fakeRepository) ResolveUnresolved(ctx context.Context, name string, department enums.Department, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeRepository) List(ctx context.Context, params listAlertsParams) ([]models.Alert, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func adminActor() authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleAdmin, Department: enums.DepartmentIT}
}

func hodActor(dept enums.Department) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleHOD, Department: dept}
}

func TestService_ListScopesHODToOwnDepartment(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listAlertsParams) ([]models.Alert, *paginationpkg.Cursor, error) {
			if params.Department == nil || *params.Department != enums.DepartmentPhysics {
				t.Fatalf("expected Physics scope, got %v", params.Department)
			}
			return []models.Alert{{ID: uuid.New(), ItemName: "Microscope"}}, nil, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), hodActor(enums.DepartmentPhysics), ListParams{})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(result.Items))
	}
}

func TestService_ListDeniesHODCrossDepartment(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	other := enums.DepartmentCSE
	_, err := svc.List(context.Background(), hodActor(enums.DepartmentPhysics), ListParams{Department: &other})
	if err == nil {
		t.Fatal("expected cross-department listing to be denied")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_ListDeniesStaff(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	actor := authz.Actor{UserID: uuid.New(), Role: enums.RoleStaff, Department: enums.DepartmentIT}
	_, err := svc.List(context.Background(), actor, ListParams{})
	if err == nil {
		t.Fatal("expected staff listing to be denied")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_ListAdminUnscopedWithCursor(t *testing.T) {
	next := paginationpkg.Cursor{CreatedAt: time.Now(), ID: uuid.New()}
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listAlertsParams) ([]models.Alert, *paginationpkg.Cursor, error) {
			if params.Department != nil {
				t.Fatalf("expected unscoped admin listing, got %v", *params.Department)
			}
			if !params.UnresolvedOnly {
				t.Fatal("expected unresolved-only filter to pass through")
			}
			return []models.Alert{{ID: uuid.New()}}, &next, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), adminActor(), ListParams{UnresolvedOnly: true, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("invalid cursor %q: %v", result.Cursor, err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("expected cursor id %s got %s", next.ID, decoded.ID)
	}
}

func TestService_ListInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), adminActor(), ListParams{Cursor: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid cursor")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListRequiresAuthentication(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), authz.Actor{}, ListParams{})
	if err == nil {
		t.Fatal("expected unauthenticated listing to fail")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
