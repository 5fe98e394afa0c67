package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keycloak "github.com/derhornspieler/keycloak-admin"
	"github.com/derhornspieler/keycloak-admin/client"
)

const adminPrefix = "/auth/admin/realms/test/"

type testServer struct {
	calls []string
}

func (ts *testServer) client(t *testing.T, admin http.HandlerFunc) *client.API {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/realms/test/protocol/openid-connect/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":300}`))
			return
		}
		ts.calls = append(ts.calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, adminPrefix))
		admin(w, r)
	}))
	t.Cleanup(srv.Close)

	kc := keycloak.New(keycloak.Config{
		URL:          srv.URL,
		Realm:        "test",
		ClientID:     "admin-cli",
		ClientSecret: "secret",
	}, nil)
	return client.New(kc)
}

const clientList = `[
	{"id": "c-uuid-1", "clientId": "app1", "enabled": true},
	{"id": "c-uuid-2", "clientId": "app2", "enabled": true}
]`

func TestFind_ReturnsClient(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c-uuid-1","clientId":"app1","enabled":true,"serviceAccountsEnabled":true}`))
	})

	c, err := api.Find(context.Background(), "c-uuid-1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "app1", c.ClientID)
	assert.True(t, c.ServiceAccountsEnabled)
}

func TestFind_NotFoundIsAbsence(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Could not find client"}`, http.StatusNotFound)
	})

	c, err := api.Find(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestFind_OtherStatusPropagates(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	_, err := api.Find(context.Background(), "c-uuid-1")
	var reqErr *keycloak.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.Status)
}

func TestFindByClientID_ScansListing(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(clientList))
	})

	c, err := api.FindByClientID(context.Background(), "app2")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "c-uuid-2", c.ID)
	assert.Equal(t, []string{"GET clients"}, ts.calls)
}

func TestFindByClientID_NoMatch(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(clientList))
	})

	c, err := api.FindByClientID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestGetRole_NotFoundIsAbsence(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Could not find role"}`, http.StatusNotFound)
	})

	r, err := api.GetRole(context.Background(), "missing", "c-uuid-1")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestRoles_StitchesOwningClient(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"r-1","name":"admin","clientRole":true}]`))
	})

	roles, err := api.Roles(context.Background(), "c-uuid-1")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "c-uuid-1", roles[0].ClientID)
}

func TestCreateRole_ReturnsID(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://kc"+adminPrefix+"clients/c-uuid-1/roles/new-role")
		w.WriteHeader(http.StatusCreated)
	})

	id, err := api.CreateRole(context.Background(), keycloak.Role{Name: "new-role"}, "c-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "new-role", id)
	assert.Equal(t, []string{"POST clients/c-uuid-1/roles"}, ts.calls)
}

func TestCreateRole_DuplicateMessage(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errorMessage":"Role with name foo already exists"}`))
	})

	_, err := api.CreateRole(context.Background(), keycloak.Role{Name: "foo"}, "c-uuid-1")
	var createErr *keycloak.CreationError
	require.ErrorAs(t, err, &createErr)
	assert.Equal(t, "Role with name foo already exists", createErr.Message)
}

func TestUpdateRole_AddressedByName(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, api.UpdateRole(context.Background(), keycloak.Role{Name: "admin", Description: "updated"}, "c-uuid-1"))
	assert.Equal(t, []string{"PUT clients/c-uuid-1/roles/admin"}, ts.calls)
}

const roleList = `[
	{"id": "r-1", "name": "plain", "composite": false, "clientRole": true},
	{"id": "r-2", "name": "bundle-a", "composite": true, "clientRole": true},
	{"id": "r-3", "name": "bundle-b", "composite": true, "clientRole": true}
]`

func TestCompositeRoles_FiltersComposites(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(roleList))
	})

	roles, err := api.CompositeRoles(context.Background(), "c-uuid-1")
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "bundle-a", roles[0].Name)
	assert.Equal(t, "bundle-b", roles[1].Name)
	assert.Equal(t, []string{"GET clients/c-uuid-1/roles"}, ts.calls)
}

func TestCompositeRolesWithPermissions_OneCallPerComposite(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/composites") {
			_, _ = w.Write([]byte(`[{"id":"p-1","name":"view","clientRole":true}]`))
			return
		}
		_, _ = w.Write([]byte(roleList))
	})

	roles, err := api.CompositeRolesWithPermissions(context.Background(), "c-uuid-1")
	require.NoError(t, err)
	require.Len(t, roles, 2)

	// One listing plus one composites fetch per composite role: 3 calls.
	assert.Equal(t, []string{
		"GET clients/c-uuid-1/roles",
		"GET clients/c-uuid-1/roles/bundle-a/composites",
		"GET clients/c-uuid-1/roles/bundle-b/composites",
	}, ts.calls)

	for _, r := range roles {
		require.Len(t, r.Permissions, 1)
		assert.Equal(t, "c-uuid-1", r.Permissions[0].ClientID)
	}
}

func TestAddPermissionsByRoleID_Route(t *testing.T) {
	ts := &testServer{}
	var body []byte
	api := ts.client(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})

	perms := []keycloak.Role{{ID: "p-1", Name: "view"}}
	require.NoError(t, api.AddPermissionsByRoleID(context.Background(), "r-2", perms))
	assert.Equal(t, []string{"POST roles-by-id/r-2/composites"}, ts.calls)
	assert.Contains(t, string(body), `"id":"p-1"`)
}

func TestDeletePermissionsByRoleID_Route(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, api.DeletePermissionsByRoleID(context.Background(), "r-2", []keycloak.Role{{ID: "p-1", Name: "view"}}))
	assert.Equal(t, []string{"DELETE roles-by-id/r-2/composites"}, ts.calls)
}

func TestUsersWithRole_ResolvesClientFirst(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/users") {
			assert.Equal(t, "0", r.URL.Query().Get("first"))
			assert.Equal(t, "10", r.URL.Query().Get("max"))
			_, _ = w.Write([]byte(`[{"id":"u-1","username":"jo.doe","enabled":true}]`))
			return
		}
		_, _ = w.Write([]byte(clientList))
	})

	first, max := 0, 10
	users, err := api.UsersWithRole(context.Background(), "app1", "admin", &first, &max)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jo.doe", users[0].Username)

	require.Len(t, ts.calls, 2)
	assert.Equal(t, "GET clients", ts.calls[0])
	assert.Equal(t, "GET clients/c-uuid-1/roles/admin/users", ts.calls[1])
}

func TestUsersWithRole_AbsentClientYieldsEmpty(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(clientList))
	})

	users, err := api.UsersWithRole(context.Background(), "missing", "admin", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, []string{"GET clients"}, ts.calls)
}

func TestDeleteRole_Route(t *testing.T) {
	ts := &testServer{}
	api := ts.client(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, api.DeleteRole(context.Background(), "old-role", "c-uuid-1"))
	assert.Equal(t, []string{"DELETE clients/c-uuid-1/roles/old-role"}, ts.calls)
}
