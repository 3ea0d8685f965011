package models

// Role of a user account.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// User owns game saves. Authentication lives outside this service.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
}

func (User) TableName() string { return "users" }

func (User) Columns() []string {
	return []string{"username", "password_hash", "role"}
}

func (u User) Values() []any {
	return []any{u.Username, u.PasswordHash, u.Role}
}

func (u User) GetID() int64 { return u.ID }

func (u *User) SetID(id int64) { u.ID = id }
