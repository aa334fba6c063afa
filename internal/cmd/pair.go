package cmd

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/asterics/flipcore/internal/configpaths"
	"github.com/asterics/flipcore/internal/log"
	"github.com/asterics/flipcore/internal/slotcfg"
)

const (
	deviceKeyFileName  = "flipcore.key.txt"
	credentialFileName = "credential.enc"

	deviceKeyLength = 16
	base62Chars     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Pair prompts for an MQTT/REST credential on the terminal (no echo) and
// seals it at rest with a locally-generated device passphrase, following
// the same auto-generate-and-persist-a-key-file shape as the teacher's own
// API server password (spec §4.3 "MqttPublish"/"RestCall" collaborator
// actions need a credential from somewhere; SPEC_FULL supplement).
type Pair struct{}

// Run is called by Kong when the pair command is executed.
func (p *Pair) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	configDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	devicePassphrase, err := loadOrCreateDeviceKey(configDir)
	if err != nil {
		return fmt.Errorf("device key: %w", err)
	}

	fmt.Fprint(os.Stdout, "MQTT/REST credential (user:pass or bearer token): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	credential := strings.TrimSpace(string(raw))
	if credential == "" {
		return fmt.Errorf("credential must not be empty")
	}

	sealed, err := slotcfg.SealCredential(devicePassphrase, credential)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}

	credPath := filepath.Join(configDir, credentialFileName)
	if err := os.WriteFile(credPath, []byte(sealed), 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}

	logger.Info("paired credential stored", "path", credPath)
	return nil
}

// loadOrCreateDeviceKey returns the persisted device passphrase, generating
// and storing a fresh one on first run.
func loadOrCreateDeviceKey(configDir string) (string, error) {
	keyPath := filepath.Join(configDir, deviceKeyFileName)
	if data, err := os.ReadFile(keyPath); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	key, err := generateDeviceKey()
	if err != nil {
		return "", fmt.Errorf("generate device key: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(key), 0o600); err != nil {
		return "", fmt.Errorf("write device key: %w", err)
	}
	return key, nil
}

func generateDeviceKey() (string, error) {
	randomBytes := make([]byte, deviceKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	key := make([]byte, deviceKeyLength)
	for i, b := range randomBytes {
		key[i] = base62Chars[int(b)%len(base62Chars)]
	}
	return string(key), nil
}

// loadPairedCredential reads back whatever Pair most recently stored, or
// returns an empty string if the daemon has never been paired.
func loadPairedCredential() (string, error) {
	configDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	credPath := filepath.Join(configDir, credentialFileName)
	sealed, err := os.ReadFile(credPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	keyPath := filepath.Join(configDir, deviceKeyFileName)
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return "", fmt.Errorf("credential file present but device key missing: %w", err)
	}
	passphrase := strings.TrimSpace(string(keyData))

	return slotcfg.OpenCredential(passphrase, strings.TrimSpace(string(sealed)))
}
