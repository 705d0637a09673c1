package service

import "github.com/iliyamo/eventdeck/internal/model"

// RequireRole passes id through when its role equals role exactly. Roles
// carry no hierarchy, so an admin does not satisfy an author check.
func RequireRole(id model.Identity, role model.Role) (model.Identity, error) {
	if id.Role != role {
		return model.Identity{}, ErrForbidden
	}
	return id, nil
}
