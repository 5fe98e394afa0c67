package client

// Client is a registered OAuth2 client (application) within a realm. It is
// mostly an identifier carrier: ID is the server-assigned UUID every
// role-related endpoint wants, ClientID the human-readable name
// administrators know it by.
type Client struct {
	ID                     string            `json:"id"`
	ClientID               string            `json:"clientId"`
	Name                   string            `json:"name,omitempty"`
	Description            string            `json:"description,omitempty"`
	RootURL                string            `json:"rootUrl,omitempty"`
	Protocol               string            `json:"protocol,omitempty"`
	Enabled                bool              `json:"enabled"`
	PublicClient           bool              `json:"publicClient"`
	ServiceAccountsEnabled bool              `json:"serviceAccountsEnabled"`
	StandardFlowEnabled    bool              `json:"standardFlowEnabled"`
	Attributes             map[string]string `json:"attributes,omitempty"`
}
