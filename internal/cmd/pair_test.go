package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/slotcfg"
)

func TestLoadOrCreateDeviceKeyPersists(t *testing.T) {
	dir := t.TempDir()
	first, err := loadOrCreateDeviceKey(dir)
	require.NoError(t, err)
	require.Len(t, first, deviceKeyLength)

	second, err := loadOrCreateDeviceKey(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCredentialRoundTripsThroughSealedFile(t *testing.T) {
	dir := t.TempDir()
	passphrase, err := loadOrCreateDeviceKey(dir)
	require.NoError(t, err)

	sealed, err := slotcfg.SealCredential(passphrase, "user:hunter2")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialFileName), []byte(sealed), 0o600))

	keyData, err := os.ReadFile(filepath.Join(dir, deviceKeyFileName))
	require.NoError(t, err)

	opened, err := slotcfg.OpenCredential(string(keyData), sealed)
	require.NoError(t, err)
	require.Equal(t, "user:hunter2", opened)
}
