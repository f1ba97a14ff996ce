package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

func admin() Actor {
	return Actor{UserID: uuid.New(), Role: enums.RoleAdmin, Department: enums.DepartmentIT}
}

func hod(dept enums.Department) Actor {
	return Actor{UserID: uuid.New(), Role: enums.RoleHOD, Department: dept}
}

func staff(dept enums.Department) Actor {
	return Actor{UserID: uuid.New(), Role: enums.RoleStaff, Department: dept}
}

func TestCanWriteInventory(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		dept  enums.Department
		want  bool
	}{
		{"admin any department", admin(), enums.DepartmentPhysics, true},
		{"hod own department", hod(enums.DepartmentPhysics), enums.DepartmentPhysics, true},
		{"hod other department", hod(enums.DepartmentPhysics), enums.DepartmentCSE, false},
		{"staff own department", staff(enums.DepartmentPhysics), enums.DepartmentPhysics, false},
		{"missing role", Actor{UserID: uuid.New(), Department: enums.DepartmentIT}, enums.DepartmentIT, false},
		{"missing department", Actor{UserID: uuid.New(), Role: enums.RoleHOD}, enums.DepartmentIT, false},
		{"zero actor", Actor{}, enums.DepartmentIT, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanWriteInventory(tc.actor, tc.dept); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCanReadInventory(t *testing.T) {
	if !CanReadInventory(staff(enums.DepartmentChemistry), enums.DepartmentChemistry) {
		t.Fatal("staff should read their own department")
	}
	if CanReadInventory(staff(enums.DepartmentChemistry), enums.DepartmentPhysics) {
		t.Fatal("staff must not read other departments")
	}
	if !CanReadInventory(admin(), enums.DepartmentBioTech) {
		t.Fatal("admin should read every department")
	}
}

func TestGrievancePredicates(t *testing.T) {
	owner := staff(enums.DepartmentIT)

	if !CanCreateGrievance(owner) {
		t.Fatal("any valid actor should create grievances")
	}
	if CanCreateGrievance(Actor{}) {
		t.Fatal("zero actor must not create grievances")
	}

	if !CanReadGrievance(owner, owner.UserID) {
		t.Fatal("owner should read their own grievance")
	}
	if CanReadGrievance(owner, uuid.New()) {
		t.Fatal("non-owner staff must not read others' grievances")
	}
	if !CanReadGrievance(admin(), uuid.New()) {
		t.Fatal("admin should read any grievance")
	}

	if CanUpdateGrievance(hod(enums.DepartmentIT)) {
		t.Fatal("hod must not update grievance lifecycle")
	}
	if !CanUpdateGrievance(admin()) {
		t.Fatal("admin should update grievance lifecycle")
	}
}

func TestCanDeleteRegistrationRequest(t *testing.T) {
	if !CanDeleteRegistrationRequest(admin(), enums.RegistrationStatusRejected) {
		t.Fatal("admin should delete rejected requests")
	}
	if CanDeleteRegistrationRequest(admin(), enums.RegistrationStatusApproved) {
		t.Fatal("approved requests must never be deletable")
	}
	if CanDeleteRegistrationRequest(admin(), enums.RegistrationStatusPending) {
		t.Fatal("pending requests must not be deletable")
	}
	if CanDeleteRegistrationRequest(hod(enums.DepartmentIT), enums.RegistrationStatusRejected) {
		t.Fatal("non-admin must not delete registration requests")
	}
}

func TestCanReadAlerts(t *testing.T) {
	if !CanReadAlerts(admin(), enums.DepartmentCSE) {
		t.Fatal("admin should read alerts for any department")
	}
	if !CanReadAlerts(hod(enums.DepartmentCSE), enums.DepartmentCSE) {
		t.Fatal("hod should read alerts for their own department")
	}
	if CanReadAlerts(hod(enums.DepartmentCSE), enums.DepartmentPhysics) {
		t.Fatal("hod must not read alerts for other departments")
	}
	if CanReadAlerts(staff(enums.DepartmentCSE), enums.DepartmentCSE) {
		t.Fatal("staff have no alert surface")
	}
}

func TestCanAccessAttachment(t *testing.T) {
	owner := staff(enums.DepartmentIT)
	if !CanAccessAttachment(owner, owner.UserID) {
		t.Fatal("uploader should access their own attachment")
	}
	if CanAccessAttachment(owner, uuid.New()) {
		t.Fatal("non-owner must not access others' attachments")
	}
	if !CanAccessAttachment(admin(), uuid.New()) {
		t.Fatal("admin should access any attachment")
	}
}
