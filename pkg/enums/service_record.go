package enums

// ServiceType distinguishes in-house work from vendor work.
type ServiceType string

const (
	ServiceTypeInternal ServiceType = "internal"
	ServiceTypeExternal ServiceType = "external"
)

// String implements fmt.Stringer.
func (s ServiceType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceType.
func (s ServiceType) IsValid() bool {
	return s == ServiceTypeInternal || s == ServiceTypeExternal
}

// ServiceNature classifies what was done to the equipment.
type ServiceNature string

const (
	ServiceNatureMaintenance  ServiceNature = "maintenance"
	ServiceNatureRepair       ServiceNature = "repair"
	ServiceNatureCalibration  ServiceNature = "calibration"
	ServiceNatureInstallation ServiceNature = "installation"
)

var validServiceNatures = []ServiceNature{
	ServiceNatureMaintenance,
	ServiceNatureRepair,
	ServiceNatureCalibration,
	ServiceNatureInstallation,
}

// String implements fmt.Stringer.
func (s ServiceNature) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceNature.
func (s ServiceNature) IsValid() bool {
	for _, candidate := range validServiceNatures {
		if candidate == s {
			return true
		}
	}
	return false
}

// ServiceStatus tracks progress of a maintenance job.
type ServiceStatus string

const (
	ServiceStatusScheduled  ServiceStatus = "scheduled"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusCancelled  ServiceStatus = "cancelled"
)

var validServiceStatuses = []ServiceStatus{
	ServiceStatusScheduled,
	ServiceStatusInProgress,
	ServiceStatusCompleted,
	ServiceStatusCancelled,
}

// String implements fmt.Stringer.
func (s ServiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceStatus.
func (s ServiceStatus) IsValid() bool {
	for _, candidate := range validServiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
