package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/questlog/pkg/httpcontext"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func run(auth string, issuer string) (*fasthttp.RequestCtx, string) {
	var seen string
	handler := JWTAuth(secret, issuer, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.UserID(ctx)
		ctx.SetStatusCode(http.StatusOK)
	})

	ctx := &fasthttp.RequestCtx{}
	if auth != "" {
		ctx.Request.Header.Set("Authorization", auth)
	}
	handler(ctx)
	return ctx, seen
}

func TestJWTAuth(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		auth   string
		issuer string
		status int
		userID string
	}{
		{
			name:   "user_id claim",
			auth:   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "u-1", "exp": exp}),
			status: http.StatusOK,
			userID: "u-1",
		},
		{
			name:   "sub claim without prefix",
			auth:   sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-2"}),
			status: http.StatusOK,
			userID: "u-2",
		},
		{
			name:   "matching issuer",
			auth:   "bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-3", "iss": "questlog"}),
			issuer: "questlog",
			status: http.StatusOK,
			userID: "u-3",
		},
		{
			name:   "missing header",
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong secret",
			auth:   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u-1"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "expired",
			auth:   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "unsigned",
			auth:   "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "u-1"}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "no subject",
			auth:   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": exp}),
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong issuer",
			auth:   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-1", "iss": "elsewhere"}),
			issuer: "questlog",
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, seen := run(tt.auth, tt.issuer)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			assert.Equal(t, tt.userID, seen)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, string(ctx.Response.Body()), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestSpoofedHeaderIsIgnored(t *testing.T) {
	handler := JWTAuth(secret, "", nil)(func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "u-1", httpcontext.UserID(ctx))
	})
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-ID", "admin")
	ctx.Request.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-1"}))
	handler(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
}
