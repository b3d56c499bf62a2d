// Package auth models the authenticated caller and the single authorization
// predicate every mutating operation runs before doing anything else.
package auth

import (
	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"
)

// Actor is the identity attached to a request by the identity provider.
type Actor struct {
	UserID string
	Role   models.Role
	Status models.AccountStatus
}

// Anonymous is the zero actor used for unauthenticated reads.
var Anonymous = Actor{}

func (a Actor) Authenticated() bool { return a.UserID != "" }

func (a Actor) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsModerator reports whether the actor can perform case moderation.
func (a Actor) IsModerator() bool {
	return a.HasRole(models.RoleModerator, models.RoleAdmin)
}

// Authorize allows the actor when it is authenticated, not suspended or
// banned, and (if any roles are given) holds one of them.
func Authorize(a Actor, required ...models.Role) error {
	if !a.Authenticated() {
		return apperr.New(apperr.KindUnauthorized, "authentication required")
	}
	if a.Status.Restricted() {
		return apperr.Newf(apperr.KindForbidden, "account is %s", a.Status)
	}
	if len(required) > 0 && !a.HasRole(required...) {
		return apperr.New(apperr.KindForbidden, "insufficient permissions")
	}
	return nil
}

// Moderators is the role set allowed to moderate cases.
var Moderators = []models.Role{models.RoleModerator, models.RoleAdmin}
