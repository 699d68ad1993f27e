package service

import (
	"directory-service/internal/model"
)

// Identity is the caller established from a verified access token
type Identity struct {
	UserID   string
	UserType model.UserType
}

// Policy decides whether identity may act on resource. A nil error allows.
type Policy func(identity *Identity, resource any) error

// Owned is implemented by resources that belong to a single user
type Owned interface {
	OwnedBy(userID string) bool
}

// Authenticated allows any caller with a verified identity
func Authenticated(identity *Identity, _ any) error {
	if identity == nil || identity.UserID == "" {
		return ErrInvalidToken
	}
	return nil
}

// HasRole allows callers whose user type is role
func HasRole(role model.UserType) Policy {
	return func(identity *Identity, _ any) error {
		if identity == nil || identity.UserType != role {
			return ErrForbidden
		}
		return nil
	}
}

// IsOwner allows callers that own the resource
func IsOwner(identity *Identity, resource any) error {
	owned, ok := resource.(Owned)
	if !ok || identity == nil || !owned.OwnedBy(identity.UserID) {
		return ErrNotOwner
	}
	return nil
}

// All combines policies; the first denial wins
func All(policies ...Policy) Policy {
	return func(identity *Identity, resource any) error {
		for _, p := range policies {
			if err := p(identity, resource); err != nil {
				return err
			}
		}
		return nil
	}
}

// Policies used by the HTTP guard and the services
var (
	RequireAuthenticated = All(Authenticated)
	RequireBusiness      = All(Authenticated, HasRole(model.UserTypeBusiness))
	RequireBusinessOwner = All(Authenticated, HasRole(model.UserTypeBusiness), IsOwner)
)
