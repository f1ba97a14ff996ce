package authz

import (
	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// Actor is the authenticated caller every policy decision is keyed on. Role
// and department come from the JWT claims; a zero Actor denies everything.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.Role
	Department enums.Department
}

// Valid reports whether the actor carries a usable identity. Missing role or
// department fails closed.
func (a Actor) Valid() bool {
	return a.UserID != uuid.Nil && a.Role.IsValid() && a.Department.IsValid()
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Valid() && a.Role == enums.RoleAdmin
}

// CanWriteInventory gates insert/update/delete on inventory rows. Inserts
// pass the incoming row's department; updates and deletes pass the existing
// row's department.
func CanWriteInventory(actor Actor, department enums.Department) bool {
	if !actor.Valid() {
		return false
	}
	switch actor.Role {
	case enums.RoleAdmin:
		return true
	case enums.RoleHOD:
		return actor.Department == department
	default:
		return false
	}
}

// CanReadInventory gates row visibility. Staff and hod only see their own
// department; admins see everything.
func CanReadInventory(actor Actor, department enums.Department) bool {
	if !actor.Valid() {
		return false
	}
	if actor.Role == enums.RoleAdmin {
		return true
	}
	return actor.Department == department
}

// CanWriteScrap mirrors the inventory write rule: scrap is a mutation of
// departmental stock.
func CanWriteScrap(actor Actor, department enums.Department) bool {
	return CanWriteInventory(actor, department)
}

// CanWriteService gates maintenance records on the owning item's department.
func CanWriteService(actor Actor, department enums.Department) bool {
	return CanWriteInventory(actor, department)
}

// CanCreateGrievance allows any valid authenticated actor to file a grievance.
func CanCreateGrievance(actor Actor) bool {
	return actor.Valid()
}

// CanReadGrievance allows the owner or an admin to see a grievance row.
func CanReadGrievance(actor Actor, createdBy uuid.UUID) bool {
	if !actor.Valid() {
		return false
	}
	return actor.Role == enums.RoleAdmin || actor.UserID == createdBy
}

// CanUpdateGrievance restricts lifecycle changes to admins.
func CanUpdateGrievance(actor Actor) bool {
	return actor.IsAdmin()
}

// CanReviewRegistration restricts approve/reject to admins.
func CanReviewRegistration(actor Actor) bool {
	return actor.IsAdmin()
}

// CanDeleteRegistrationRequest allows deletion of rejected requests by admins
// only. Approved requests are never deletable through this path.
func CanDeleteRegistrationRequest(actor Actor, status enums.RegistrationStatus) bool {
	return actor.IsAdmin() && status == enums.RegistrationStatusRejected
}

// CanReadAlerts reports whether the actor may list alerts for the department.
// Staff have no alert surface.
func CanReadAlerts(actor Actor, department enums.Department) bool {
	if !actor.Valid() {
		return false
	}
	switch actor.Role {
	case enums.RoleAdmin:
		return true
	case enums.RoleHOD:
		return actor.Department == department
	default:
		return false
	}
}

// CanAccessAttachment mirrors the owning record's read rule: the uploader or
// an admin.
func CanAccessAttachment(actor Actor, ownerID uuid.UUID) bool {
	if !actor.Valid() {
		return false
	}
	return actor.Role == enums.RoleAdmin || actor.UserID == ownerID
}

// ActorFromUserRole builds an Actor from a stored role assignment.
func ActorFromUserRole(role *models.UserRole) Actor {
	if role == nil {
		return Actor{}
	}
	return Actor{
		UserID:     role.UserID,
		Role:       role.Role,
		Department: role.Department,
	}
}
