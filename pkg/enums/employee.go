package enums

// EmployeeStage buckets performance points by seniority tier.
type EmployeeStage string

const (
	EmployeeStageBasic        EmployeeStage = "Basic"
	EmployeeStageIntermediate EmployeeStage = "Intermediate"
	EmployeeStageAdvanced     EmployeeStage = "Advanced"
)

// String implements fmt.Stringer.
func (e EmployeeStage) String() string {
	return string(e)
}

// EmployeeRangeStatus marks whether a point record still counts.
type EmployeeRangeStatus string

const (
	EmployeeRangeStatusActive    EmployeeRangeStatus = "active"
	EmployeeRangeStatusInactive  EmployeeRangeStatus = "inactive"
	EmployeeRangeStatusSuspended EmployeeRangeStatus = "suspended"
)

// String implements fmt.Stringer.
func (e EmployeeRangeStatus) String() string {
	return string(e)
}
