package dto

type CreateCardRequest struct {
	UserID       string            `json:"user_id"`
	CompanyID    string            `json:"company_id"`
	Template     string            `json:"template"`
	Colors       map[string]string `json:"colors,omitempty"`
	CustomFields map[string]any    `json:"custom_fields,omitempty"`
	IsDefault    *bool             `json:"is_default,omitempty"`
	IsPublic     *bool             `json:"is_public,omitempty"`
}

type UpdateCardRequest struct {
	Template     string             `json:"template"`
	Colors       *map[string]string `json:"colors,omitempty"`
	CustomFields *map[string]any    `json:"custom_fields,omitempty"`
	IsDefault    *bool              `json:"is_default,omitempty"`
	IsPublic     *bool              `json:"is_public,omitempty"`
}
