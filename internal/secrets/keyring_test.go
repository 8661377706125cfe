package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	keyring.MockInit()

	_, err := GetAPIKey("")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SetAPIKey("", "  key-123 "))
	got, err := GetAPIKey(DefaultAccount)
	require.NoError(t, err)
	assert.Equal(t, "key-123", got)

	require.NoError(t, DeleteAPIKey(""))
	_, err = GetAPIKey("")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, DeleteAPIKey(""))
}

func TestSetAPIKey_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetAPIKey("work", "   "))
}

func TestResolveAPIKey(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, SetAPIKey("work", "from-keyring"))

	got, err := ResolveAPIKey("from-config", "work")
	require.NoError(t, err)
	assert.Equal(t, "from-config", got, "configured key wins")

	got, err = ResolveAPIKey("", "work")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", got)

	_, err = ResolveAPIKey("", "personal")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAPIKey_KeyringFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus session"))

	_, err := ResolveAPIKey("", "")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no dbus session")
}
