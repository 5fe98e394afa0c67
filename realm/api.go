// Package realm exposes the realm-management operations of the Keycloak
// admin API: the tenant record itself, realm roles, and authentication
// flows, executions, and configs.
package realm

import (
	"context"
	"net/http"

	keycloak "github.com/derhornspieler/keycloak-admin"
)

// API orchestrates realm operations over a shared transport. All realm-
// scoped calls target the transport's configured realm.
type API struct {
	kc *keycloak.Client
}

// New returns a realm API bound to kc.
func New(kc *keycloak.Client) *API {
	return &API{kc: kc}
}

// Find returns the configured realm's record, or nil when the realm does
// not exist.
func (a *API) Find(ctx context.Context) (*Realm, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return realmFromJSON(resp.Body)
}

// Create registers a new realm. Realm creation is the one operation that
// addresses the admin root rather than a realm, so it works regardless of
// which realm the transport is scoped to.
func (a *API) Create(ctx context.Context, r Realm) error {
	_, err := a.kc.SendRealmless(ctx, http.MethodPost, "", r, nil)
	return err
}

// Delete removes the configured realm and everything in it.
func (a *API) Delete(ctx context.Context) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "", nil, nil)
	return err
}

// Roles lists the realm-level roles.
func (a *API) Roles(ctx context.Context) ([]keycloak.Role, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "roles", nil, nil)
	if err != nil {
		return nil, err
	}
	return keycloak.RolesFromJSON(resp.Body, "")
}

// CreateAuthenticationFlow creates a top-level or sub flow and returns the
// new flow's ID.
func (a *API) CreateAuthenticationFlow(ctx context.Context, flow NewAuthenticationFlow) (string, error) {
	return keycloak.CreatedID(a.kc.Send(ctx, http.MethodPost, "authentication/flows", flow, nil))
}

// AuthenticationFlows lists the realm's authentication flows.
func (a *API) AuthenticationFlows(ctx context.Context) ([]AuthenticationFlow, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "authentication/flows", nil, nil)
	if err != nil {
		return nil, err
	}
	return flowsFromJSON(resp.Body)
}

// AuthenticationFlow returns the flow with the given ID, or nil when no
// such flow exists.
func (a *API) AuthenticationFlow(ctx context.Context, id string) (*AuthenticationFlow, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "authentication/flows/"+id, nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return flowFromJSON(resp.Body)
}

// AuthenticationFlowByAlias resolves a flow by its alias. The flows endpoint
// has no alias filter, so this lists and scans.
func (a *API) AuthenticationFlowByAlias(ctx context.Context, alias string) (*AuthenticationFlow, error) {
	flows, err := a.AuthenticationFlows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range flows {
		if flows[i].Alias == alias {
			return &flows[i], nil
		}
	}
	return nil, nil
}

// DeleteAuthenticationFlow removes a flow by ID.
func (a *API) DeleteAuthenticationFlow(ctx context.Context, id string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "authentication/flows/"+id, nil, nil)
	return err
}

// CreateExecution appends an execution to the aliased flow and returns the
// new execution's ID.
func (a *API) CreateExecution(ctx context.Context, flowAlias string, execution NewAuthenticationExecution) (string, error) {
	return keycloak.CreatedID(a.kc.Send(ctx, http.MethodPost, "authentication/flows/"+flowAlias+"/executions/execution", execution, nil))
}

// Executions lists the aliased flow's executions in order.
func (a *API) Executions(ctx context.Context, flowAlias string) ([]AuthenticationExecution, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "authentication/flows/"+flowAlias+"/executions", nil, nil)
	if err != nil {
		return nil, err
	}
	return executionsFromJSON(resp.Body)
}

// Execution returns one of the aliased flow's executions by ID, or nil when
// the flow has no such execution. Executions are only readable through their
// flow's listing, so this lists and scans.
func (a *API) Execution(ctx context.Context, flowAlias, id string) (*AuthenticationExecution, error) {
	executions, err := a.Executions(ctx, flowAlias)
	if err != nil {
		return nil, err
	}
	for i := range executions {
		if executions[i].ID == id {
			return &executions[i], nil
		}
	}
	return nil, nil
}

// UpdateExecution updates an execution of the aliased flow, typically its
// requirement level.
func (a *API) UpdateExecution(ctx context.Context, flowAlias string, execution AuthenticationExecution) error {
	_, err := a.kc.Send(ctx, http.MethodPut, "authentication/flows/"+flowAlias+"/executions", execution, nil)
	return err
}

// DeleteExecution removes an execution by ID.
func (a *API) DeleteExecution(ctx context.Context, executionID string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "authentication/executions/"+executionID, nil, nil)
	return err
}

// AuthenticationConfig returns the config with the given ID, or nil when no
// such config exists.
func (a *API) AuthenticationConfig(ctx context.Context, id string) (*AuthenticationConfig, error) {
	resp, err := a.kc.Send(ctx, http.MethodGet, "authentication/config/"+id, nil, nil)
	if err != nil {
		if keycloak.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return configFromJSON(resp.Body)
}

// CreateAuthenticationConfig attaches a config to an execution and returns
// the new config's ID.
func (a *API) CreateAuthenticationConfig(ctx context.Context, executionID string, config NewAuthenticationConfig) (string, error) {
	return keycloak.CreatedID(a.kc.Send(ctx, http.MethodPost, "authentication/executions/"+executionID+"/config", config, nil))
}

// DeleteAuthenticationConfig removes a config by ID.
func (a *API) DeleteAuthenticationConfig(ctx context.Context, configID string) error {
	_, err := a.kc.Send(ctx, http.MethodDelete, "authentication/config/"+configID, nil, nil)
	return err
}
