package handler

import (
	"strings"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// RegisterRequest is the HTTP request body for POST /organizations.
type RegisterRequest struct {
	Name       string `json:"name"`
	AdminEmail string `json:"admin_email"`
	AdminName  string `json:"admin_name"`
}

// Validate normalizes and checks the registration request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	r.AdminEmail = strings.TrimSpace(r.AdminEmail)
	if r.AdminEmail == "" {
		return dErrors.New(dErrors.CodeBadRequest, "admin_email is required")
	}
	r.AdminName = strings.TrimSpace(r.AdminName)
	if r.AdminName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "admin_name is required")
	}
	return nil
}

// UpdateProfileRequest is the HTTP request body for PATCH /organizations/{id}/profile.
type UpdateProfileRequest struct {
	LogoURL string `json:"logo_url"`
	About   string `json:"about"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.About = strings.TrimSpace(r.About)
	return nil
}

// SetVerificationRequest is the HTTP request body for
// POST /organizations/{id}/verification.
type SetVerificationRequest struct {
	Status string `json:"status"`

	parsedStatus domain.VerificationStatus
}

func (r *SetVerificationRequest) Validate() error {
	status, err := domain.ParseVerificationStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated verification status.
func (r *SetVerificationRequest) ParsedStatus() domain.VerificationStatus {
	return r.parsedStatus
}
