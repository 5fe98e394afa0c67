// Package user exposes the user-management operations of the Keycloak admin
// API: CRUD, credentials, role mappings, and required-action emails.
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	keycloak "github.com/derhornspieler/keycloak-admin"
)

// API orchestrates user operations over a shared transport. It carries no
// state of its own; every call is a fresh round trip.
type API struct {
	kc *keycloak.Client
}

// New returns a user API bound to kc.
func New(kc *keycloak.Client) *API {
	return &API{kc: kc}
}

// Find returns the user with the given ID, or nil when no such user exists.
func (a *API) Find(ctx context.Context, id string) (*User, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "users/"+id, nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var u User
	if err := json.Unmarshal(resp.Body, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// FindAll lists users. Supported query parameters are those of the admin
// API's GET /users (username, email, search, first, max, ...). When the
// caller sets no paging bounds, first defaults to 0 and max to the realm's
// total user count so the server's default page size cannot silently
// truncate the result.
func (a *API) FindAll(ctx context.Context, query url.Values) ([]User, error) {
	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	if q.Get("first") == "" {
		q.Set("first", "0")
	}
	if q.Get("max") == "" {
		count, err := a.Count(ctx)
		if err != nil {
			return nil, err
		}
		q.Set("max", strconv.Itoa(count))
	}

	resp, err := a.kc.Send(ctx, http.MethodGet, "users?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Count returns the total number of users in the realm.
func (a *API) Count(ctx context.Context) (int, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "users/count", nil, nil)
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(resp.Body)))
	if err != nil {
		return 0, fmt.Errorf("decode user count: %w", err)
	}
	return count, nil
}

// Create creates a user and returns the new user's ID.
func (a *API) Create(ctx context.Context, u NewUser) (string, error) {
	return keycloak.CreatedID(a.kc.Send(ctx, http.MethodPost, "users", u, nil))
}

// Update replaces the user's mutable profile fields.
func (a *API) Update(ctx context.Context, u User) error {
	_, err := a.kc.Send(ctx, http.MethodPut, "users/"+u.ID, u, nil)
	return err
}

// Delete removes the user.
func (a *API) Delete(ctx context.Context, id string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "users/"+id, nil, nil)
	return err
}

// ResetPassword sets a new password credential. A temporary password forces
// the user to choose a new one on next login.
func (a *API) ResetPassword(ctx context.Context, id, newPassword string, temporary bool) error {
	body := map[string]any{
		"type":      "password",
		"value":     newPassword,
		"temporary": temporary,
	}
	_, err := a.kc.Send(ctx, http.MethodPut, "users/"+id+"/reset-password", body, nil)
	return err
}

// roleMappings is the wire shape of GET users/{id}/role-mappings: a flat
// realm-level list next to a per-client grouping keyed by client name.
type roleMappings struct {
	RealmMappings  []keycloak.Role          `json:"realmMappings"`
	ClientMappings map[string]clientMapping `json:"clientMappings"`
}

type clientMapping struct {
	ID       string          `json:"id"`
	Client   string          `json:"client"`
	Mappings []keycloak.Role `json:"mappings"`
}

// GetRoles returns all roles mapped to the user, realm- and client-scoped,
// as one flat list. Client-scoped roles get their ClientID from the
// grouping they arrived under, never from the role record itself.
func (a *API) GetRoles(ctx context.Context, id string) ([]keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "users/"+id+"/role-mappings", nil, nil)
	if err != nil {
		return nil, err
	}

	var mappings roleMappings
	if err := json.Unmarshal(resp.Body, &mappings); err != nil {
		return nil, fmt.Errorf("decode role mappings: %w", err)
	}

	roles := append([]keycloak.Role{}, mappings.RealmMappings...)
	for _, cm := range mappings.ClientMappings {
		for _, r := range cm.Mappings {
			r.ClientID = cm.ID
			r.ClientRole = true
			roles = append(roles, r)
		}
	}
	return roles, nil
}

// GetRealmRoles returns the realm-level roles mapped to the user.
func (a *API) GetRealmRoles(ctx context.Context, id string) ([]keycloak.Role, error) {
	return a.roleList(ctx, "users/"+id+"/role-mappings/realm", "")
}

// GetAvailableRealmRoles returns the realm-level roles that can still be
// mapped to the user.
func (a *API) GetAvailableRealmRoles(ctx context.Context, id string) ([]keycloak.Role, error) {
	return a.roleList(ctx, "users/"+id+"/role-mappings/realm/available", "")
}

// AddRealmRoles maps realm-level roles to the user. The server treats the
// payload as a set union.
func (a *API) AddRealmRoles(ctx context.Context, id string, roles []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodPost, "users/"+id+"/role-mappings/realm", keycloak.MinimalRoles(roles), nil)
	return err
}

// DeleteRealmRoles unmaps realm-level roles from the user. The server treats
// the payload as a set difference.
func (a *API) DeleteRealmRoles(ctx context.Context, id string, roles []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "users/"+id+"/role-mappings/realm", keycloak.MinimalRoles(roles), nil)
	return err
}

// GetClientRoles returns the roles of one client mapped to the user.
// clientID is the client's server-assigned UUID, not its human-readable
// clientId.
func (a *API) GetClientRoles(ctx context.Context, id, clientID string) ([]keycloak.Role, error) {
	return a.roleList(ctx, "users/"+id+"/role-mappings/clients/"+clientID, clientID)
}

// GetAvailableClientRoles returns the client's roles that can still be
// mapped to the user.
func (a *API) GetAvailableClientRoles(ctx context.Context, id, clientID string) ([]keycloak.Role, error) {
	return a.roleList(ctx, "users/"+id+"/role-mappings/clients/"+clientID+"/available", clientID)
}

// AddClientRoles maps client-scoped roles to the user.
func (a *API) AddClientRoles(ctx context.Context, id, clientID string, roles []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodPost, "users/"+id+"/role-mappings/clients/"+clientID, keycloak.MinimalRoles(roles), nil)
	return err
}

// AddClientRole maps a single role identified by its {id, name} pair, for
// callers that never fetched the full role record.
func (a *API) AddClientRole(ctx context.Context, id, clientID string, role keycloak.MinimalRole) error {
	_, err := a.kc.Send(ctx, http.MethodPost, "users/"+id+"/role-mappings/clients/"+clientID, []keycloak.MinimalRole{role}, nil)
	return err
}

// DeleteClientRoles unmaps client-scoped roles from the user.
func (a *API) DeleteClientRoles(ctx context.Context, id, clientID string, roles []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "users/"+id+"/role-mappings/clients/"+clientID, keycloak.MinimalRoles(roles), nil)
	return err
}

// SendRequiredActionsEmail emails the user a link that triggers the given
// required actions (e.g. UPDATE_PASSWORD, CONFIGURE_TOTP).
func (a *API) SendRequiredActionsEmail(ctx context.Context, id string, actions []string) error {
	_, err := a.kc.Send(ctx, http.MethodPut, "users/"+id+"/execute-actions-email", actions, nil)
	return err
}

// SendVerifyEmail emails the user an address-verification link.
func (a *API) SendVerifyEmail(ctx context.Context, id string) error {
	_, err := a.kc.Send(ctx, http.MethodPut, "users/"+id+"/send-verify-email", nil, nil)
	return err
}

// RequiredActions returns the aliases of the realm's registered required
// actions.
func (a *API) RequiredActions(ctx context.Context) ([]string, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "authentication/required-actions", nil, nil)
	if err != nil {
		return nil, err
	}

	var actions []struct {
		Alias string `json:"alias"`
	}
	if err := json.Unmarshal(resp.Body, &actions); err != nil {
		return nil, fmt.Errorf("decode required actions: %w", err)
	}

	aliases := make([]string, 0, len(actions))
	for _, action := range actions {
		aliases = append(aliases, action.Alias)
	}
	return aliases, nil
}

// Credentials returns the user's stored credentials.
func (a *API) Credentials(ctx context.Context, id string) ([]Credential, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "users/"+id+"/credentials", nil, nil)
	if err != nil {
		return nil, err
	}

	var creds []Credential
	if err := json.Unmarshal(resp.Body, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredential removes one of the user's credentials.
func (a *API) DeleteCredential(ctx context.Context, id, credentialID string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "users/"+id+"/credentials/"+credentialID, nil, nil)
	return err
}

func (a *API) roleList(ctx context.Context, path, clientID string) ([]keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return keycloak.RolesFromJSON(resp.Body, clientID)
}
