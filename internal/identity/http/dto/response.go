package dto

import (
	"time"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
)

// IdentityResponse represents an identity in API responses.
type IdentityResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	NationalID string    `json:"national_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapIdentityToResponse converts a domain identity to an API response.
func MapIdentityToResponse(identity *identityDomain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:         identity.ID.String(),
		Name:       identity.Name,
		NationalID: identity.NationalID,
		Email:      identity.Email,
		Role:       string(identity.Role),
		CreatedAt:  identity.CreatedAt,
	}
}

// ListIdentitiesResponse represents a list of identities in API responses.
type ListIdentitiesResponse struct {
	Data []IdentityResponse `json:"data"`
}

// MapIdentitiesToListResponse converts domain identities to a list API response.
func MapIdentitiesToListResponse(identities []*identityDomain.Identity) ListIdentitiesResponse {
	data := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		data = append(data, MapIdentityToResponse(identity))
	}
	return ListIdentitiesResponse{Data: data}
}
