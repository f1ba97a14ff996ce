package enums

// Role represents a user's system-wide permission level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHOD   Role = "hod"
	RoleStaff Role = "staff"
)

var validRoles = []Role{
	RoleAdmin,
	RoleHOD,
	RoleStaff,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}
