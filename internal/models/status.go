package models

// CustomerStatus is the coarse lifecycle of a customer. Values only move
// forward, one step at a time, in the order of CustomerStatusFlow.
type CustomerStatus string

const (
	CustomerStatusPending               CustomerStatus = "pending"
	CustomerStatusVerified              CustomerStatus = "verified"
	CustomerStatusApproved              CustomerStatus = "approved"
	CustomerStatusInstallationScheduled CustomerStatus = "installation_scheduled"
	CustomerStatusCompleted             CustomerStatus = "completed"
)

var CustomerStatusFlow = []CustomerStatus{
	CustomerStatusPending,
	CustomerStatusVerified,
	CustomerStatusApproved,
	CustomerStatusInstallationScheduled,
	CustomerStatusCompleted,
}

// Index returns the position of s in CustomerStatusFlow, or -1.
func (s CustomerStatus) Index() int {
	for i, st := range CustomerStatusFlow {
		if st == s {
			return i
		}
	}
	return -1
}

func (s CustomerStatus) Valid() bool {
	return s.Index() >= 0
}

// Next returns the only status s may move to.
func (s CustomerStatus) Next() (CustomerStatus, bool) {
	i := s.Index()
	if i < 0 || i == len(CustomerStatusFlow)-1 {
		return "", false
	}
	return CustomerStatusFlow[i+1], true
}

// ProgressPercent maps the status index onto 0..100.
func (s CustomerStatus) ProgressPercent() int {
	i := s.Index()
	if i < 0 {
		return 0
	}
	return i * 100 / (len(CustomerStatusFlow) - 1)
}

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
)

// AssignmentStatus tracks a vendor's work on a customer.
type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
)

var assignmentFlow = []string{
	string(AssignmentStatusAssigned),
	string(AssignmentStatusInProgress),
	string(AssignmentStatusCompleted),
}

func (s AssignmentStatus) Valid() bool {
	return indexOf(assignmentFlow, string(s)) >= 0
}

// CanAdvanceTo reports whether next is the step directly after s.
func (s AssignmentStatus) CanAdvanceTo(next AssignmentStatus) bool {
	return isNextStep(assignmentFlow, string(s), string(next))
}

type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

var commissionFlow = []string{
	string(CommissionStatusPending),
	string(CommissionStatusApproved),
	string(CommissionStatusPaid),
}

func (s CommissionStatus) Valid() bool {
	return indexOf(commissionFlow, string(s)) >= 0
}

func (s CommissionStatus) CanAdvanceTo(next CommissionStatus) bool {
	return isNextStep(commissionFlow, string(s), string(next))
}

type PanelType string

const (
	PanelTypeDCR    PanelType = "dcr"
	PanelTypeNonDCR PanelType = "non_dcr"
)

func (p PanelType) Valid() bool {
	return p == PanelTypeDCR || p == PanelTypeNonDCR
}

// InstallationType decides whether an inverter bonus applies.
type InstallationType string

const (
	InstallationOnGrid InstallationType = "ongrid"
	InstallationHybrid InstallationType = "hybrid"
)

type CustomerSource string

const (
	SourceDirect   CustomerSource = "direct"
	SourceReferral CustomerSource = "referral"
)

type VendorType string

const (
	VendorLogistic          VendorType = "logistic"
	VendorDiscomNetMetering VendorType = "discom_net_metering"
	VendorPanelSupplier     VendorType = "panel_supplier"
	VendorInverterSupplier  VendorType = "inverter_supplier"
	VendorStructureSupplier VendorType = "structure_supplier"
	VendorInstaller         VendorType = "installer"
)

var vendorTypes = []string{
	string(VendorLogistic),
	string(VendorDiscomNetMetering),
	string(VendorPanelSupplier),
	string(VendorInverterSupplier),
	string(VendorStructureSupplier),
	string(VendorInstaller),
}

func (v VendorType) Valid() bool {
	return indexOf(vendorTypes, string(v)) >= 0
}

type JourneyStage string

const (
	StagePreInstallation  JourneyStage = "pre_installation"
	StageInstallation     JourneyStage = "installation"
	StagePostInstallation JourneyStage = "post_installation"
)

var JourneyStages = []JourneyStage{StagePreInstallation, StageInstallation, StagePostInstallation}

func (s JourneyStage) Valid() bool {
	for _, st := range JourneyStages {
		if st == s {
			return true
		}
	}
	return false
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

func isNextStep(flow []string, from, to string) bool {
	i := indexOf(flow, from)
	return i >= 0 && i+1 < len(flow) && flow[i+1] == to
}
