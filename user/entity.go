package user

// User is a Keycloak user within the configured realm. ID is assigned
// server-side and immutable; profile fields and Attributes are mutable via
// API.Update.
type User struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	FirstName  string              `json:"firstName,omitempty"`
	LastName   string              `json:"lastName,omitempty"`
	Email      string              `json:"email,omitempty"`
	Enabled    bool                `json:"enabled"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// NewUser is the creation payload: a User without a server-assigned ID.
type NewUser struct {
	Username   string              `json:"username"`
	FirstName  string              `json:"firstName,omitempty"`
	LastName   string              `json:"lastName,omitempty"`
	Email      string              `json:"email,omitempty"`
	Enabled    bool                `json:"enabled"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// Credential is a stored authentication factor (password, OTP, ...). The
// admin API exposes credentials read-only except for deletion.
type Credential struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	CreatedDate    int64  `json:"createdDate,omitempty"`
	CredentialData string `json:"credentialData,omitempty"`
}
