// Package client exposes the client-management operations of the Keycloak
// admin API: client lookup, client roles, and composite role resolution.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	keycloak "github.com/derhornspieler/keycloak-admin"
	"github.com/derhornspieler/keycloak-admin/user"
)

// API orchestrates client operations over a shared transport.
type API struct {
	kc *keycloak.Client
}

// New returns a client API bound to kc.
func New(kc *keycloak.Client) *API {
	return &API{kc: kc}
}

// Find returns the client with the given server-assigned ID, or nil when no
// such client exists.
func (a *API) Find(ctx context.Context, id string) (*Client, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "clients/"+id, nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var c Client
	if err := json.Unmarshal(resp.Body, &c); err != nil {
		return nil, fmt.Errorf("decode client: %w", err)
	}
	return &c, nil
}

// FindAll lists every client in the realm.
func (a *API) FindAll(ctx context.Context) ([]Client, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "clients", nil, nil)
	if err != nil {
		return nil, err
	}

	var clients []Client
	if err := json.Unmarshal(resp.Body, &clients); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return clients, nil
}

// FindByClientID resolves a client by its human-readable clientId. The admin
// API has no server-side filter for this, so every call lists all clients
// and scans; the cost is O(total clients).
func (a *API) FindByClientID(ctx context.Context, clientID string) (*Client, error) {
	clients, err := a.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ClientID == clientID {
			return &clients[i], nil
		}
	}
	return nil, nil
}

// GetRole returns the client role with the given name, or nil when the
// client has no such role. clientID is the client's server-assigned ID.
func (a *API) GetRole(ctx context.Context, roleName, clientID string) (*keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "clients/"+clientID+"/roles/"+roleName, nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	r, err := keycloak.RoleFromJSON(resp.Body, clientID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Roles lists the client's roles with the owning client's ID stitched onto
// each; the listing endpoint does not embed it.
func (a *API) Roles(ctx context.Context, id string) ([]keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "clients/"+id+"/roles", nil, nil)
	if err != nil {
		return nil, err
	}
	return keycloak.RolesFromJSON(resp.Body, id)
}

// CreateRole creates a client role and returns the new role's ID.
func (a *API) CreateRole(ctx context.Context, role keycloak.Role, clientID string) (string, error) {
	return keycloak.CreatedID(a.kc.Send(ctx, http.MethodPost, "clients/"+clientID+"/roles", role, nil))
}

// UpdateRole replaces the role's mutable fields. Roles are addressed by
// name, so Name doubles as the identifier and cannot be changed this way.
func (a *API) UpdateRole(ctx context.Context, role keycloak.Role, clientID string) error {
	_, err := a.kc.Send(ctx, http.MethodPut, "clients/"+clientID+"/roles/"+role.Name, role, nil)
	return err
}

// DeleteRole removes a client role by name.
func (a *API) DeleteRole(ctx context.Context, roleName, clientID string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "clients/"+clientID+"/roles/"+roleName, nil, nil)
	return err
}

// AddPermissions adds permission roles to the named composite role. The
// server treats the payload as a set union.
func (a *API) AddPermissions(ctx context.Context, roleName, clientID string, permissions []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodPost, "clients/"+clientID+"/roles/"+roleName+"/composites", permissions, nil)
	return err
}

// AddPermissionsByRoleID adds permission roles to a composite role addressed
// by its internal ID.
func (a *API) AddPermissionsByRoleID(ctx context.Context, roleID string, permissions []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodPost, "roles-by-id/"+roleID+"/composites", permissions, nil)
	return err
}

// DeletePermissionsByRoleID removes permission roles from a composite role
// addressed by its internal ID. The server treats the payload as a set
// difference.
func (a *API) DeletePermissionsByRoleID(ctx context.Context, roleID string, permissions []keycloak.Role) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "roles-by-id/"+roleID+"/composites", permissions, nil)
	return err
}

// CompositeRoles lists the client's composite roles without resolving their
// permission sets.
func (a *API) CompositeRoles(ctx context.Context, id string) ([]keycloak.Role, error) {
	roles, err := a.Roles(ctx, id)
	if err != nil {
		return nil, err
	}

	composites := make([]keycloak.Role, 0, len(roles))
	for _, r := range roles {
		if r.Composite {
			composites = append(composites, r)
		}
	}
	return composites, nil
}

// CompositeRolesWithPermissions lists the client's composite roles with each
// role's permission set resolved. The API has no bulk endpoint for this, so
// resolution costs one extra call per composite role, issued sequentially.
func (a *API) CompositeRolesWithPermissions(ctx context.Context, id string) ([]keycloak.Role, error) {
	composites, err := a.CompositeRoles(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range composites {
		permissions, err := a.RolePermissions(ctx, id, composites[i].Name)
		if err != nil {
			return nil, err
		}
		composites[i].Permissions = permissions
	}
	return composites, nil
}

// RolePermissions lists the permission roles of one composite role.
func (a *API) RolePermissions(ctx context.Context, id, roleName string) ([]keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "clients/"+id+"/roles/"+roleName+"/composites", nil, nil)
	if err != nil {
		return nil, err
	}
	return keycloak.RolesFromJSON(resp.Body, id)
}

// UsersWithRole lists the users holding the named role of the client known
// by its human-readable clientId. An absent client yields an empty list.
// first and max bound the page when non-nil.
func (a *API) UsersWithRole(ctx context.Context, clientID, roleName string, first, max *int) ([]user.User, error) {
	c, err := a.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []user.User{}, nil
	}

	query := url.Values{}
	if first != nil {
		query.Set("first", strconv.Itoa(*first))
	}
	if max != nil {
		query.Set("max", strconv.Itoa(*max))
	}

	path := "clients/" + c.ID + "/roles/" + roleName + "/users"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := a.kc.Send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var users []user.User
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
