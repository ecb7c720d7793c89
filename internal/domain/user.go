package domain

// User roles. Exactly two tiers exist; admins are not members for the
// purposes of the borrowing and review creation policies.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`            // Primary key
	Username string `gorm:"unique;not null" json:"username"` // Unique username
	Email    string `gorm:"unique;not null" json:"email"`    // Unique email address
	Password string `gorm:"not null" json:"-"`               // Bcrypt hash, never serialized
	Role     string `gorm:"default:member" json:"role"`      // Role: member or admin
}

// Admin reports whether the user holds the admin role.
func (u *User) Admin() bool {
	return u.Role == RoleAdmin
}

// Member reports whether the user holds the member role.
func (u *User) Member() bool {
	return u.Role == RoleMember
}

// ValidRole reports whether role names one of the two known tiers.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}
