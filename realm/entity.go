package realm

import (
	"encoding/json"
	"fmt"
)

// Realm is the tenant-configuration record. Most of its fields are tri-state
// Flags rather than booleans; see Flag.
type Realm struct {
	ID                     string `json:"id,omitempty"`
	Realm                  string `json:"realm"`
	DisplayName            string `json:"displayName,omitempty"`
	Enabled                Flag   `json:"enabled,omitempty"`
	SSLRequired            Flag   `json:"sslRequired,omitempty"`
	RegistrationAllowed    Flag   `json:"registrationAllowed,omitempty"`
	LoginWithEmailAllowed  Flag   `json:"loginWithEmailAllowed,omitempty"`
	DuplicateEmailsAllowed Flag   `json:"duplicateEmailsAllowed,omitempty"`
	ResetPasswordAllowed   Flag   `json:"resetPasswordAllowed,omitempty"`
	EditUsernameAllowed    Flag   `json:"editUsernameAllowed,omitempty"`
	BruteForceProtected    Flag   `json:"bruteForceProtected,omitempty"`
}

// realmFromJSON decodes a realm, coercing omitted flags to Disabled so the
// record round-trips into the exact shape the server's write format wants.
func realmFromJSON(data []byte) (*Realm, error) {
	var r Realm
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode realm: %w", err)
	}

	r.Enabled = r.Enabled.orDisabled()
	r.SSLRequired = r.SSLRequired.orDisabled()
	r.RegistrationAllowed = r.RegistrationAllowed.orDisabled()
	r.LoginWithEmailAllowed = r.LoginWithEmailAllowed.orDisabled()
	r.DuplicateEmailsAllowed = r.DuplicateEmailsAllowed.orDisabled()
	r.ResetPasswordAllowed = r.ResetPasswordAllowed.orDisabled()
	r.EditUsernameAllowed = r.EditUsernameAllowed.orDisabled()
	r.BruteForceProtected = r.BruteForceProtected.orDisabled()
	return &r, nil
}

// AuthenticationFlow is an ordered, configurable sequence of login steps.
// AuthenticationExecutions carries the inline execution records as opaque
// maps; the executions endpoint is the typed way to read them.
type AuthenticationFlow struct {
	ID                       string           `json:"id"`
	Alias                    string           `json:"alias"`
	Description              string           `json:"description"`
	ProviderID               string           `json:"providerId"`
	TopLevel                 bool             `json:"topLevel"`
	BuiltIn                  bool             `json:"buildIn"`
	AuthenticationExecutions []map[string]any `json:"authenticationExecutions"`
}

// NewAuthenticationFlow is the creation payload: a flow without a
// server-assigned ID.
type NewAuthenticationFlow struct {
	Alias                    string           `json:"alias"`
	Description              string           `json:"description"`
	ProviderID               string           `json:"providerId"`
	TopLevel                 bool             `json:"topLevel"`
	AuthenticationExecutions []map[string]any `json:"authenticationExecutions"`
}

// AuthenticationExecution is one step of a flow. Requirement is one of the
// values listed in RequirementChoices (REQUIRED, ALTERNATIVE, DISABLED, ...).
// AuthenticationConfig references the linked config by ID when one exists.
type AuthenticationExecution struct {
	ID                   string   `json:"id"`
	DisplayName          string   `json:"displayName"`
	Requirement          string   `json:"requirement"`
	RequirementChoices   []string `json:"requirementChoices"`
	Configurable         bool     `json:"configurable"`
	ProviderID           string   `json:"providerId"`
	AuthenticationConfig string   `json:"authenticationConfig,omitempty"`
	Level                int      `json:"level"`
	Index                int      `json:"index"`
}

// NewAuthenticationExecution is the creation payload for an execution: only
// the provider is chosen by the caller, everything else is server-assigned.
type NewAuthenticationExecution struct {
	Provider string `json:"provider"`
}

// AuthenticationConfig is a named key-value bag attached to one execution.
type AuthenticationConfig struct {
	ID     string            `json:"id"`
	Alias  string            `json:"alias"`
	Config map[string]string `json:"config"`
}

// NewAuthenticationConfig is the creation payload for a config.
type NewAuthenticationConfig struct {
	Alias  string            `json:"alias"`
	Config map[string]string `json:"config"`
}

func flowFromJSON(data []byte) (*AuthenticationFlow, error) {
	var f AuthenticationFlow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode authentication flow: %w", err)
	}
	f.fillDefaults()
	return &f, nil
}

func flowsFromJSON(data []byte) ([]AuthenticationFlow, error) {
	var flows []AuthenticationFlow
	if err := json.Unmarshal(data, &flows); err != nil {
		return nil, fmt.Errorf("decode authentication flows: %w", err)
	}
	for i := range flows {
		flows[i].fillDefaults()
	}
	return flows, nil
}

// fillDefaults papers over the API's habit of omitting empty fields.
func (f *AuthenticationFlow) fillDefaults() {
	if f.AuthenticationExecutions == nil {
		f.AuthenticationExecutions = []map[string]any{}
	}
}

func executionsFromJSON(data []byte) ([]AuthenticationExecution, error) {
	var executions []AuthenticationExecution
	if err := json.Unmarshal(data, &executions); err != nil {
		return nil, fmt.Errorf("decode authentication executions: %w", err)
	}
	for i := range executions {
		if executions[i].RequirementChoices == nil {
			executions[i].RequirementChoices = []string{}
		}
	}
	return executions, nil
}

func configFromJSON(data []byte) (*AuthenticationConfig, error) {
	var c AuthenticationConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode authentication config: %w", err)
	}
	if c.Config == nil {
		c.Config = map[string]string{}
	}
	return &c, nil
}
