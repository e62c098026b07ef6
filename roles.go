package identity

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleViewer, RoleContributor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanViewData reports whether the role may read patient data. Every
// authenticated role can; row-level scoping happens in the query layer.
func (r UserRole) CanViewData() bool {
	return r.IsValid()
}

// CanViewAllRecords reports whether the role sees every patient record
// rather than only its own linked one.
func (r UserRole) CanViewAllRecords() bool {
	switch r {
	case RoleContributor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanSubmitData reports whether the role may submit patient data.
func (r UserRole) CanSubmitData() bool {
	switch r {
	case RoleContributor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageUsers reports whether the role may administer accounts.
func (r UserRole) CanManageUsers() bool {
	return r == RoleAdmin
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleViewer:      0,
		RoleContributor: 1,
		RoleAdmin:       2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleViewer,
		RoleContributor,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// Capabilities is the flattened permission set for a role, suitable for
// serialization toward a boundary layer.
type Capabilities struct {
	CanViewData       bool `json:"can_view_data"`
	CanViewAllRecords bool `json:"can_view_all_records"`
	CanSubmitData     bool `json:"can_submit_data"`
	CanManageUsers    bool `json:"can_manage_users"`
}

// RoleCapabilities maps a role to its permitted actions. Pure function, no
// store access.
func RoleCapabilities(r UserRole) Capabilities {
	return Capabilities{
		CanViewData:       r.CanViewData(),
		CanViewAllRecords: r.CanViewAllRecords(),
		CanSubmitData:     r.CanSubmitData(),
		CanManageUsers:    r.CanManageUsers(),
	}
}
