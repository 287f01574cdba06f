package models

// Role is the closed set of user roles. Authorization decisions go through
// the capability methods below instead of string comparisons at call sites.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleManager      Role = "manager"
	RoleEmployee     Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsPlatform reports whether r operates above the company level.
// Platform roles carry no company association and see all tenants.
func (r Role) IsPlatform() bool {
	return r == RoleSuperAdmin
}

// CanManageCompanies gates the companies resource.
func (r Role) CanManageCompanies() bool {
	return r == RoleSuperAdmin
}

// CanManageMembers gates user management within a company.
func (r Role) CanManageMembers() bool {
	return r == RoleSuperAdmin || r == RoleCompanyAdmin
}

// CanManageDirectory gates department and designation management.
func (r Role) CanManageDirectory() bool {
	return r == RoleSuperAdmin || r == RoleCompanyAdmin || r == RoleManager
}
