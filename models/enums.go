package models

type Role string

const (
	// AnyRole is used by callers that only need an authenticated principal.
	AnyRole      Role = ""
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleEmployee:
		return true
	}
	return false
}

// HomePath is the landing page for a role. Unknown roles land on the
// employee dashboard.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleVendor:
		return "/vendor_update"
	default:
		return "/dashboard"
	}
}

type MachineStatus string

const (
	MachineActive      MachineStatus = "active"
	MachineMaintenance MachineStatus = "maintenance"
	MachineInactive    MachineStatus = "inactive"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineActive, MachineMaintenance, MachineInactive:
		return true
	}
	return false
}

type UpdateType string

const (
	UpdateRestock     UpdateType = "restock"
	UpdateMaintenance UpdateType = "maintenance"
	UpdateIssue       UpdateType = "issue"
)

func (t UpdateType) Valid() bool {
	switch t {
	case UpdateRestock, UpdateMaintenance, UpdateIssue:
		return true
	}
	return false
}
