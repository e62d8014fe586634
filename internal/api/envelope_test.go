package api

import (
	"testing"

	"lendworks-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "enveloped data",
			payload: `{"success":true,"data":["a","b"]}`,
			want:    []string{"a", "b"},
		},
		{
			name:    "bare body",
			payload: `["a","b"]`,
			want:    []string{"a", "b"},
		},
		{
			name:    "envelope without data decodes the body itself",
			payload: `{"success":true,"message":"ok"}`,
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []string
			if tt.want == nil {
				var obj map[string]any
				require.NoError(t, decodePayload([]byte(tt.payload), &obj))
				return
			}
			require.NoError(t, decodePayload([]byte(tt.payload), &out))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEnvelopeMessage(t *testing.T) {
	assert.Equal(t, "Loan not found", envelopeMessage([]byte(`{"success":false,"message":"Loan not found"}`)))
	assert.Empty(t, envelopeMessage([]byte(`not json`)))
	assert.Empty(t, envelopeMessage([]byte(`[1,2,3]`)))
}

func TestDecodeTokenPayload(t *testing.T) {
	t.Run("structured response", func(t *testing.T) {
		payload := `{"success":true,"data":{
			"token":"T1","tokenExpiresAtUtc":"2030-01-01T00:00:00Z",
			"refreshToken":"R1","refreshTokenExpiresAtUtc":"2030-06-01T00:00:00Z",
			"profile":{"id":"u1","fullName":"Jane","email":"j@x.com","role":"Borrower"}}}`

		tokens, profile, err := decodeTokenPayload([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, "T1", tokens.AccessToken)
		assert.Equal(t, "R1", tokens.RefreshToken)
		assert.Equal(t, "2030-06-01T00:00:00Z", tokens.RefreshTokenExpiry)
		require.NotNil(t, profile)
		assert.Equal(t, domain.RoleBorrower, profile.Role)
	})

	t.Run("bare string token", func(t *testing.T) {
		tokens, profile, err := decodeTokenPayload([]byte(`"eyJhbGciOiJIUzI1NiJ9.e30.x"`))
		require.NoError(t, err)
		assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.e30.x", tokens.AccessToken)
		assert.Empty(t, tokens.RefreshToken)
		assert.Nil(t, profile)
	})

	t.Run("enveloped bare string", func(t *testing.T) {
		tokens, _, err := decodeTokenPayload([]byte(`{"success":true,"data":"T9"}`))
		require.NoError(t, err)
		assert.Equal(t, "T9", tokens.AccessToken)
	})

	t.Run("missing token", func(t *testing.T) {
		_, _, err := decodeTokenPayload([]byte(`{"refreshToken":"R1"}`))
		assert.ErrorIs(t, err, domain.ErrTokenMissing)
	})

	t.Run("empty string token", func(t *testing.T) {
		_, _, err := decodeTokenPayload([]byte(`""`))
		assert.ErrorIs(t, err, domain.ErrTokenMissing)
	})
}
