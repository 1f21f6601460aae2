package entities

// Directory groups
const (
	GroupAdmin = "admin"
	GroupUser  = "user"
)

// DirectoryUser is a user-pool account as shown to administrators.
type DirectoryUser struct {
	UserID    string   `json:"userId"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Enabled   bool     `json:"enabled"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Groups    []string `json:"groups"`
	Approved  bool     `json:"approved"`
	Role      string   `json:"role"`
}

// ApplyGroups derives the approval state and role from group membership.
// Users in no group are awaiting approval.
func (u *DirectoryUser) ApplyGroups(groups []string) {
	if groups == nil {
		groups = []string{}
	}
	u.Groups = groups
	u.Approved = len(groups) > 0
	u.Role = GroupUser
	for _, g := range groups {
		if g == GroupAdmin {
			u.Role = GroupAdmin
			break
		}
	}
}

// IsValidGroup reports whether name is a group the application manages.
func IsValidGroup(name string) bool {
	return name == GroupAdmin || name == GroupUser
}
