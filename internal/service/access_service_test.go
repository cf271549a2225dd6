package service

import (
	"testing"
	"time"

	"chatforge/pkg/auth"
	"chatforge/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newAccessService(t *testing.T) *AccessService {
	t.Helper()
	return NewAccessService(
		auth.NewJWTManager(testSecret),
		&config.AccessConfig{
			PublicAnonKey: "anon-key-123",
			WidgetMarkers: []string{"chatforge-widget"},
			ChannelTags:   []string{"whatsapp"},
		},
		zap.NewNop(),
	)
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthorize(t *testing.T) {
	svc := newAccessService(t)

	tests := []struct {
		name    string
		req     AccessRequest
		want    CallerKind
		wantErr bool
	}{
		{
			name: "valid bearer token",
			req:  AccessRequest{Authorization: "Bearer " + signedToken(t, testSecret)},
			want: CallerDashboard,
		},
		{
			name:    "invalid bearer token alone",
			req:     AccessRequest{Authorization: "Bearer not-a-token"},
			wantErr: true,
		},
		{
			name: "public anon key",
			req:  AccessRequest{APIKey: "anon-key-123"},
			want: CallerWidget,
		},
		{
			name: "widget marker in client info",
			req:  AccessRequest{ClientInfo: "chatforge-widget/1.4.2"},
			want: CallerWidget,
		},
		{
			name: "widget marker in referer",
			req:  AccessRequest{Referer: "https://example.com/chatforge-widget/embed"},
			want: CallerWidget,
		},
		{
			name: "trusted channel source",
			req:  AccessRequest{Source: "whatsapp"},
			want: CallerChannel,
		},
		{
			name: "invalid token but valid anon key",
			req:  AccessRequest{Authorization: "Bearer junk", APIKey: "anon-key-123"},
			want: CallerWidget,
		},
		{
			name:    "unknown source with no credentials",
			req:     AccessRequest{Source: "unknown"},
			wantErr: true,
		},
		{
			name:    "empty request",
			req:     AccessRequest{},
			wantErr: true,
		},
		{
			name:    "wrong api key",
			req:     AccessRequest{APIKey: "something-else"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authorize(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeTokenSignedWithWrongSecret(t *testing.T) {
	svc := newAccessService(t)

	_, err := svc.Authorize(AccessRequest{Authorization: "Bearer " + signedToken(t, "other-secret")})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthorizeEmptyAnonKeyNeverMatches(t *testing.T) {
	svc := NewAccessService(
		auth.NewJWTManager(testSecret),
		&config.AccessConfig{PublicAnonKey: ""},
		zap.NewNop(),
	)

	_, err := svc.Authorize(AccessRequest{APIKey: ""})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
