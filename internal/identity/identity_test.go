package identity

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/common"
)

func fakeToken(t *testing.T, c claims) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payload, err := json.Marshal(c)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestResolveAnonymousByDefault(t *testing.T) {
	id, err := NewResolver(&common.AuthConfig{}).Resolve()
	require.NoError(t, err)
	require.False(t, id.IsAuthenticated())
}

func TestResolveTestUserPinWinsOverToken(t *testing.T) {
	tok := fakeToken(t, claims{Subject: "user_from_token", OrgID: "org_A"})
	id, err := NewResolver(&common.AuthConfig{TestUserID: "user_pinned", Token: tok}).Resolve()
	require.NoError(t, err)
	require.Equal(t, "user_pinned", id.Subject)
	require.Empty(t, id.OrgID)
}

func TestResolveTokenClaims(t *testing.T) {
	tok := fakeToken(t, claims{Subject: "user_1", OrgID: "org_A", OrgRole: "admin"})
	id, err := NewResolver(&common.AuthConfig{Token: tok}).Resolve()
	require.NoError(t, err)
	require.Equal(t, "user_1", id.Subject)
	require.Equal(t, "org_A", id.OrgID)
	require.True(t, id.IsAdmin)
}

func TestResolveMalformedTokenErrors(t *testing.T) {
	_, err := NewResolver(&common.AuthConfig{Token: "not-a-jwt"}).Resolve()
	require.Error(t, err)
}
