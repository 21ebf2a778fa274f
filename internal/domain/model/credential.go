package model

// ServiceAccount holds the fields of a Google Cloud service-account key that
// the application reads directly. The full JSON document is still required to
// authenticate; these fields are extracted for validation and for scoping
// requests to a project.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
}
