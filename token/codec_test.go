package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/averlon/identity-plane/vault"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T, raw string) *vault.Vault {
	t.Helper()
	v, err := vault.New(base64.StdEncoding.EncodeToString([]byte(raw)))
	require.NoError(t, err)
	return v
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec(newTestVault(t, "codec-test-master-key"), time.Hour)

	session := &Session{
		Algorithm: AlgHMACSHA256,
		Key:       []byte("per-session-key"),
		UserID:    uuid.New(),
	}

	signed, err := codec.Encode(session)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	decoded, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, session.Algorithm, decoded.Algorithm)
	assert.Equal(t, session.Key, decoded.Key)
	assert.Equal(t, session.UserID, decoded.UserID)
	assert.True(t, decoded.Complete())
}

func TestCodec_RejectsWrongMasterKey(t *testing.T) {
	issuer := NewCodec(newTestVault(t, "issuer-master-key"), time.Hour)
	verifier := NewCodec(newTestVault(t, "different-master-key"), time.Hour)

	signed, err := issuer.Encode(&Session{
		Algorithm: AlgHMACSHA1,
		Key:       []byte("k"),
		UserID:    uuid.New(),
	})
	require.NoError(t, err)

	_, err = verifier.Decode(signed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec := NewCodec(newTestVault(t, "codec-test-master-key"), time.Hour)

	_, err := codec.Decode("definitely.not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCodec_RejectsExpiredToken(t *testing.T) {
	codec := NewCodec(newTestVault(t, "codec-test-master-key"), -time.Minute)

	signed, err := codec.Encode(&Session{
		Algorithm: AlgHMACSHA256,
		Key:       []byte("k"),
		UserID:    uuid.New(),
	})
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCodec_IncompleteClaims(t *testing.T) {
	codec := NewCodec(newTestVault(t, "codec-test-master-key"), time.Hour)

	signed, err := codec.Encode(&Session{
		Algorithm: AlgHMACSHA256,
		UserID:    uuid.New(),
	})
	require.NoError(t, err)

	decoded, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.False(t, decoded.Complete())
}

func TestSession_Complete(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Complete())

	assert.False(t, (&Session{}).Complete())
	assert.False(t, (&Session{Algorithm: AlgHMACSHA1, Key: []byte("k")}).Complete())
	assert.True(t, (&Session{Algorithm: AlgHMACSHA1, Key: []byte("k"), UserID: uuid.New()}).Complete())
}

func TestVault_New(t *testing.T) {
	t.Run("empty key rejected", func(t *testing.T) {
		_, err := vault.New("")
		assert.ErrorIs(t, err, vault.ErrNoMasterKey)
	})

	t.Run("bad encoding rejected", func(t *testing.T) {
		_, err := vault.New("%%%not-base64%%%")
		assert.Error(t, err)
	})

	t.Run("valid key", func(t *testing.T) {
		v, err := vault.New(base64.StdEncoding.EncodeToString([]byte("key")))
		require.NoError(t, err)
		assert.Equal(t, []byte("key"), v.MasterKey())
	})
}
