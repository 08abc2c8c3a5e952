// Package dto provides data transfer objects for identity HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
	customValidation "github.com/allisson/loans/internal/validation"
)

// IdentityRequest contains the fields accepted when creating or replacing an identity.
type IdentityRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
}

// Validate checks if the identity request is valid.
func (r *IdentityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.NationalID,
			validation.Required,
			customValidation.NationalID,
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(3, 320),
		),
		validation.Field(&r.Role,
			customValidation.OneOfFold(string(identityDomain.RoleClient), string(identityDomain.RoleManager)),
		),
	)
}

// ToCreateInput converts a validated request into use case input.
func (r *IdentityRequest) ToCreateInput() *identityDomain.CreateIdentityInput {
	role, _ := identityDomain.ParseRole(r.Role)
	return &identityDomain.CreateIdentityInput{
		Name:       r.Name,
		NationalID: r.NationalID,
		Email:      r.Email,
		Role:       role,
	}
}

// ToUpdateInput converts a validated request into use case input.
func (r *IdentityRequest) ToUpdateInput() *identityDomain.UpdateIdentityInput {
	role, _ := identityDomain.ParseRole(r.Role)
	return &identityDomain.UpdateIdentityInput{
		Name:       r.Name,
		NationalID: r.NationalID,
		Email:      r.Email,
		Role:       role,
	}
}

// ListIdentitiesQuery holds the optional query string filters for listing identities.
type ListIdentitiesQuery struct {
	Email      *string
	NationalID *string
	Role       *string
}

// ToFilter converts the query into a domain filter. Role is matched ignoring case.
func (q *ListIdentitiesQuery) ToFilter() (identityDomain.ListFilter, error) {
	filter := identityDomain.ListFilter{
		Email:      q.Email,
		NationalID: q.NationalID,
	}

	if q.Role != nil {
		role, err := identityDomain.ParseRole(*q.Role)
		if err != nil {
			return identityDomain.ListFilter{}, err
		}
		filter.Role = &role
	}

	return filter, nil
}
