package service

import (
	"testing"

	"directory-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPolicies(t *testing.T) {
	business := &Identity{UserID: "u1", UserType: model.UserTypeBusiness}
	community := &Identity{UserID: "u2", UserType: model.UserTypeCommunity}
	listing := &model.Business{UserID: "u1"}

	tests := []struct {
		name     string
		policy   Policy
		identity *Identity
		resource any
		want     error
	}{
		{"anonymous", RequireAuthenticated, nil, nil, ErrInvalidToken},
		{"empty identity", RequireAuthenticated, &Identity{}, nil, ErrInvalidToken},
		{"authenticated", RequireAuthenticated, community, nil, nil},
		{"business role", RequireBusiness, business, nil, nil},
		{"community role", RequireBusiness, community, nil, ErrForbidden},
		{"anonymous business", RequireBusiness, nil, nil, ErrInvalidToken},
		{"owner", RequireBusinessOwner, business, listing, nil},
		{"not owner", RequireBusinessOwner, &Identity{UserID: "u3", UserType: model.UserTypeBusiness}, listing, ErrNotOwner},
		{"not owned resource", IsOwner, business, "plain", ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy(tt.identity, tt.resource)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, ErrNotOwner, ErrForbidden)
}
