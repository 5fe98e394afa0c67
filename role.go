package keycloak

import (
	"encoding/json"
	"fmt"
)

// Role represents a Keycloak role in any of its three contexts: a bare realm
// role, a role scoped to a client (ClientID set), or a composite role with
// its resolved permission set (Permissions set). ID and Name are assigned
// server-side and immutable.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Composite   bool   `json:"composite"`
	ClientRole  bool   `json:"clientRole"`
	ClientID    string `json:"clientId,omitempty"`
	Permissions []Role `json:"permissions,omitempty"`
}

// Minimal returns the {id, name} projection the role-mapping endpoints
// accept for bulk add/remove payloads.
func (r Role) Minimal() MinimalRole {
	return MinimalRole{ID: r.ID, Name: r.Name}
}

// MinimalRole is the smallest payload the API accepts to identify a role.
type MinimalRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleFromJSON decodes a single role. A non-empty clientID is stitched onto
// the role; client-scoped listing endpoints do not embed the owning client's
// ID themselves.
func RoleFromJSON(data []byte, clientID string) (Role, error) {
	var r Role
	if err := json.Unmarshal(data, &r); err != nil {
		return Role{}, fmt.Errorf("decode role: %w", err)
	}
	if clientID != "" {
		r.ClientID = clientID
	}
	return r, nil
}

// RolesFromJSON decodes a role list, stitching a non-empty clientID onto
// every element.
func RolesFromJSON(data []byte, clientID string) ([]Role, error) {
	var rs []Role
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	if clientID != "" {
		for i := range rs {
			rs[i].ClientID = clientID
		}
	}
	return rs, nil
}

// MinimalRoles projects roles to their bulk-mutation payload shape.
func MinimalRoles(roles []Role) []MinimalRole {
	out := make([]MinimalRole, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Minimal())
	}
	return out
}
