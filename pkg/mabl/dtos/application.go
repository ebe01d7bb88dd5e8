package dtos

type Application struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	OrganizationID string `json:"organization_id"`
}

type Environment struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	OrganizationID string `json:"organization_id"`
}
