package handler

import (
	"chorale/internal/org/models"
	"chorale/internal/org/service"
)

// RegistrationResponse is the HTTP response for POST /organizations.
type RegistrationResponse struct {
	Organization  *models.Organization  `json:"organization"`
	Administrator *models.Administrator `json:"administrator"`
}

// FromRegistration converts a registration result to an HTTP response.
func FromRegistration(reg *service.Registration) *RegistrationResponse {
	return &RegistrationResponse{
		Organization:  reg.Organization,
		Administrator: reg.Administrator,
	}
}

// OrganizationListResponse is the HTTP response for GET /organizations.
type OrganizationListResponse struct {
	Organizations []*models.Organization `json:"organizations"`
}
