package realm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Flag
	}{
		{"bool true", `true`, Enabled},
		{"bool false", `false`, Disabled},
		{"string sentinel", `"true"`, Enabled},
		{"string passthrough", `"external"`, Flag("external")},
		{"empty string", `""`, Unspecified},
		{"null", `null`, Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlag_UnmarshalRejectsOtherTypes(t *testing.T) {
	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`42`), &f))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &f))
}

func TestFlag_MarshalsAsStringSentinel(t *testing.T) {
	data, err := json.Marshal(Enabled)
	require.NoError(t, err)
	assert.Equal(t, `"true"`, string(data))
}

func TestRealm_RoundTrip(t *testing.T) {
	original := Realm{
		ID:                     "realm-uuid",
		Realm:                  "test",
		DisplayName:            "Test Realm",
		Enabled:                Enabled,
		SSLRequired:            Flag("external"),
		RegistrationAllowed:    Disabled,
		LoginWithEmailAllowed:  Enabled,
		DuplicateEmailsAllowed: Disabled,
		ResetPasswordAllowed:   Enabled,
		EditUsernameAllowed:    Disabled,
		BruteForceProtected:    Enabled,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := realmFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
}
