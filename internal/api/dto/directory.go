package dto

import "github.com/hugh/cardhub/internal/api/validation"

// Requests for the directory resources: companies, departments, designations
// and users. Validation mirrors the handler-level style used elsewhere; the
// maps carry per-field messages.

type CompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (r CompanyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Company name is required"
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Website != "" && !validation.IsValidWebsite(r.Website) {
		errors["website"] = "Website must start with http:// or https://"
	}
	if r.Status != "" && r.Status != "active" && r.Status != "inactive" {
		errors["status"] = "Status must be active or inactive"
	}

	return errors
}

type DepartmentRequest struct {
	CompanyID   string `json:"company_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (r DepartmentRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Department name is required"
	}
	if r.Status != "" && r.Status != "active" && r.Status != "inactive" {
		errors["status"] = "Status must be active or inactive"
	}

	return errors
}

type DesignationRequest struct {
	CompanyID   string `json:"company_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (r DesignationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Designation title is required"
	}
	if r.Status != "" && r.Status != "active" && r.Status != "inactive" {
		errors["status"] = "Status must be active or inactive"
	}

	return errors
}

type CreateUserRequest struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	CompanyID     string            `json:"company_id,omitempty"`
	DepartmentID  string            `json:"department_id,omitempty"`
	DesignationID string            `json:"designation_id,omitempty"`
	Role          string            `json:"role,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Avatar        string            `json:"avatar,omitempty"`
	Bio           string            `json:"bio,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
	Status        string            `json:"status,omitempty"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}

	return errors
}

// UpdateUserRequest leaves out email, password and company: account identity
// and tenancy do not change through this endpoint.
type UpdateUserRequest struct {
	Name          string             `json:"name"`
	DepartmentID  *string            `json:"department_id,omitempty"`
	DesignationID *string            `json:"designation_id,omitempty"`
	Role          string             `json:"role,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Avatar        string             `json:"avatar,omitempty"`
	Bio           string             `json:"bio,omitempty"`
	SocialLinks   *map[string]string `json:"social_links,omitempty"`
	Status        string             `json:"status,omitempty"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Status != "" && r.Status != "active" && r.Status != "inactive" {
		errors["status"] = "Status must be active or inactive"
	}

	return errors
}
