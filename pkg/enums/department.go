package enums

// Department identifies the organizational unit that owns a record.
type Department string

const (
	DepartmentIT         Department = "IT"
	DepartmentAIDS       Department = "AI&DS"
	DepartmentCSE        Department = "CSE"
	DepartmentPhysics    Department = "Physics"
	DepartmentChemistry  Department = "Chemistry"
	DepartmentBioTech    Department = "Bio-tech"
	DepartmentChemical   Department = "Chemical"
	DepartmentMechanical Department = "Mechanical"
)

var validDepartments = []Department{
	DepartmentIT,
	DepartmentAIDS,
	DepartmentCSE,
	DepartmentPhysics,
	DepartmentChemistry,
	DepartmentBioTech,
	DepartmentChemical,
	DepartmentMechanical,
}

// Departments returns the full list of known departments.
func Departments() []Department {
	out := make([]Department, len(validDepartments))
	copy(out, validDepartments)
	return out
}

// String implements fmt.Stringer.
func (d Department) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Department.
func (d Department) IsValid() bool {
	for _, candidate := range validDepartments {
		if candidate == d {
			return true
		}
	}
	return false
}
