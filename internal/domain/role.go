package domain

// Role is the global standing of an identity. It is ordered: a higher rank
// implies every capability of the ranks below it.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleMember     Role = "member"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

var roleRanks = map[Role]int{
	RoleGuest:      0,
	RoleMember:     1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Rank returns the role's position in the ordering; unknown roles rank below
// guest.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r grants everything other grants.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// Valid reports whether r is a known global role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ChannelRole is a member's standing within one channel. Owner is assigned
// only at channel creation; it never changes hands through role updates.
type ChannelRole string

const (
	ChannelRoleMember    ChannelRole = "member"
	ChannelRoleModerator ChannelRole = "moderator"
	ChannelRoleOwner     ChannelRole = "owner"
)

var channelRoleRanks = map[ChannelRole]int{
	ChannelRoleMember:    0,
	ChannelRoleModerator: 1,
	ChannelRoleOwner:     2,
}

// Rank returns the channel role's position in the ordering.
func (r ChannelRole) Rank() int {
	rank, ok := channelRoleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r grants everything other grants.
func (r ChannelRole) AtLeast(other ChannelRole) bool {
	return r.Rank() >= other.Rank()
}

// Valid reports whether r is a known channel role.
func (r ChannelRole) Valid() bool {
	_, ok := channelRoleRanks[r]
	return ok
}

// Assignable reports whether r may be set through a role change. Only
// member and moderator qualify; ownership is fixed at creation.
func (r ChannelRole) Assignable() bool {
	return r == ChannelRoleMember || r == ChannelRoleModerator
}
