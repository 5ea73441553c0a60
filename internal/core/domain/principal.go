package domain

type PrincipalID string

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleSysadmin Role = "sysadmin"
)

// Principal is the authenticated caller of a request. Identity issuance
// happens upstream; the streaming core only consumes it. A zero Principal
// means the request carried no usable credentials.
type Principal struct {
	ID    PrincipalID
	Email string
	Role  Role
}

// IsAnonymous reports whether the request carried no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}
