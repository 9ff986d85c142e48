package models

type UserRole string

const (
	SpaceAdminRole     UserRole = "SPACE_ADMIN_ROLE"
	SpaceManagerRole   UserRole = "SPACE_MANAGER_ROLE"
	SpaceExecutorRole  UserRole = "SPACE_EXECUTOR_ROLE"
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
)

var roleHumanName = map[UserRole]string{
	SpaceAdminRole:     "Администратор",
	SpaceManagerRole:   "Менеджер производства",
	SpaceExecutorRole:  "Исполнитель",
	UserRoleSuperAdmin: "Суперадмин системы",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsSpaceAdmin() bool {
	return r == SpaceAdminRole
}

const SystemUser = "Система"

// Principal авторизованный субъект запроса, собирается один раз в middleware из jwt клеймов
type Principal struct {
	UserID  string
	SpaceID string
	Role    UserRole
}

func (p Principal) HasRole(role UserRole) bool {
	return p.Role == role
}

func (p Principal) IsSpaceAdmin() bool {
	return p.Role.IsSpaceAdmin()
}
