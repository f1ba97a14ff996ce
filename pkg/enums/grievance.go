package enums

// GrievanceStatus tracks the lifecycle of a complaint.
type GrievanceStatus string

const (
	GrievanceStatusPending    GrievanceStatus = "pending"
	GrievanceStatusInProgress GrievanceStatus = "in_progress"
	GrievanceStatusResolved   GrievanceStatus = "resolved"
	GrievanceStatusRejected   GrievanceStatus = "rejected"
)

var validGrievanceStatuses = []GrievanceStatus{
	GrievanceStatusPending,
	GrievanceStatusInProgress,
	GrievanceStatusResolved,
	GrievanceStatusRejected,
}

// String implements fmt.Stringer.
func (g GrievanceStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GrievanceStatus.
func (g GrievanceStatus) IsValid() bool {
	for _, candidate := range validGrievanceStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// GrievancePriority ranks a complaint for triage.
type GrievancePriority string

const (
	GrievancePriorityLow    GrievancePriority = "low"
	GrievancePriorityMedium GrievancePriority = "medium"
	GrievancePriorityHigh   GrievancePriority = "high"
)

// String implements fmt.Stringer.
func (g GrievancePriority) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GrievancePriority.
func (g GrievancePriority) IsValid() bool {
	return g == GrievancePriorityLow || g == GrievancePriorityMedium || g == GrievancePriorityHigh
}
