package enums

type Role string

const (
	RoleUser          Role = "User"
	RoleAdministrator Role = "Administrator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdministrator:
		return true
	}
	return false
}
