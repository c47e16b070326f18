package models

// Roles. Only an operator may command the robot; a viewer reads state and logs.
const (
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// IsRole reports whether r is a known role.
func IsRole(r string) bool {
	return r == RoleOperator || r == RoleViewer
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	Role         string `json:"role"`
}

// Identity is the verified holder of an access token.
type Identity struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// CanOperate reports whether the holder may issue motion commands.
func (i Identity) CanOperate() bool {
	return i.Role == RoleOperator
}
