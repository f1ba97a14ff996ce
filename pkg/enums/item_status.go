package enums

// ItemStatus reflects whether an inventory row is usable.
type ItemStatus string

const (
	ItemStatusActive      ItemStatus = "active"
	ItemStatusInService   ItemStatus = "in_service"
	ItemStatusUnavailable ItemStatus = "unavailable"
)

// String implements fmt.Stringer.
func (i ItemStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemStatus.
func (i ItemStatus) IsValid() bool {
	return i == ItemStatusActive || i == ItemStatusInService || i == ItemStatusUnavailable
}
