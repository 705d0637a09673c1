package model

import "time"

// Role is the authorization class of a user.  Roles are compared by exact
// equality; there is no hierarchy between them.
type Role string

const (
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// Answers holds the onboarding questionnaire as a list of
// question → answer maps, exactly as the client submitted it.
type Answers struct {
	Answers []map[string]string `json:"answers"`
}

// User represents a credential record as stored in the `users` table.
// It is storage-facing only; handlers never serialize it directly and
// convert it with Identity() instead.
//
// Fields:
//
//	ID           – primary key identifier.
//	Username     – unique login name, the sole lookup key.
//	Email        – contact address.
//	PasswordHash – bcrypt hash, never the plaintext.
//	Role         – user, author or admin.
//	Bio          – optional onboarding answers (JSON column).
//	Tags         – interest tags (JSON column).
//	Likes        – liked event ids (JSON column, set semantics).
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	Bio          *Answers  // users.bio (nullable)
	Tags         []string  // users.tags
	Likes        []int64   // users.likes
	CreatedAt    time.Time // users.created_at
}

// Identity is the authenticated view of a user: everything but the
// password hash.  It only lives for the duration of a request.
type Identity struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     Role     `json:"role"`
	Bio      *Answers `json:"bio"`
	Tags     []string `json:"tags"`
	Likes    []int64  `json:"likes"`
}

// Identity maps the stored record to its wire representation.  Nil slices
// become empty ones so clients always see arrays.
func (u User) Identity() Identity {
	tags := u.Tags
	if tags == nil {
		tags = []string{}
	}
	likes := u.Likes
	if likes == nil {
		likes = []int64{}
	}
	return Identity{
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Bio:      u.Bio,
		Tags:     tags,
		Likes:    likes,
	}
}
