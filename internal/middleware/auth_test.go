package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gun-code/sec-a-back/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) VerifyAndResolve(_ context.Context, _ string) (*auth.Identity, error) {
	return f.identity, f.err
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"missing", "", "", false},
		{"wrong scheme", "Basic dXNlcg==", "", false},
		{"no token", "Bearer ", "", false},
		{"only scheme", "Bearer", "", false},
		{"valid", "Bearer at1", "at1", true},
		{"lowercase scheme", "bearer at1", "at1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			tok, err := BearerToken(r)
			if tc.wantOK {
				require.NoError(t, err)
				assert.Equal(t, tc.want, tok)
			} else {
				assert.ErrorIs(t, err, auth.ErrMissingCredential)
			}
		})
	}
}

func gate(v Verifier, inner http.Handler) http.Handler {
	return NewAuthMiddleware(v).RequireAuth(inner)
}

func TestRequireAuth_MissingCredential(t *testing.T) {
	h := gate(&fakeVerifier{}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a credential")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	v := &fakeVerifier{err: fmt.Errorf("%w: invalid_token", auth.ErrUnauthorized)}
	h := gate(v, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a rejected token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ProviderOutageIs503(t *testing.T) {
	v := &fakeVerifier{err: fmt.Errorf("%w: timeout", auth.ErrProviderUnavailable)}
	h := gate(v, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run during an outage")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer at1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code,
		"a transient outage must not read as an auth failure")
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	v := &fakeVerifier{identity: &auth.Identity{UserID: "u1", Subject: "s1"}}

	var seen *auth.Identity
	h := gate(v, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = ident
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer at1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
}
