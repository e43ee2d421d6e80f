// Package keys models the SSH key pair a provider client uses to reach the
// instances it launches. The pair is described by file paths plus a cloud-side
// key name; material is only read from disk when a caller actually needs it.
package keys

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/stratoforge/strato/internal/config"
)

// KeyPair references an SSH key pair on disk and its cloud-side name.
type KeyPair struct {
	Name           string
	PublicKeyPath  string
	PrivateKeyPath string
}

// New builds a KeyPair. When privateKeyPath is empty it is derived from the
// public key path by stripping a ".pub" suffix, matching the usual OpenSSH
// layout.
func New(publicKeyPath, privateKeyPath, name string) *KeyPair {
	publicKeyPath = ExpandPath(publicKeyPath)
	privateKeyPath = ExpandPath(privateKeyPath)
	if privateKeyPath == "" && strings.HasSuffix(publicKeyPath, ".pub") {
		privateKeyPath = strings.TrimSuffix(publicKeyPath, ".pub")
	}
	return &KeyPair{
		Name:           name,
		PublicKeyPath:  publicKeyPath,
		PrivateKeyPath: privateKeyPath,
	}
}

// FromConfig builds the key pair described by a resolved provider
// configuration, falling back to the current user's default OpenSSH key and
// username when the configuration does not say otherwise.
func FromConfig(values config.Values) *KeyPair {
	username := "root"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}

	defaultPublic := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultPublic = filepath.Join(home, ".ssh", "id_rsa.pub")
	}

	return New(
		values.GetStringDefault("public_key_path", defaultPublic),
		values.GetStringDefault("private_key_path", ""),
		values.GetStringDefault("key_name", username),
	)
}

// PublicKeyContent returns the public key material in authorized_keys form,
// ready to upload to a cloud.
func (k *KeyPair) PublicKeyContent() (string, error) {
	if k.PublicKeyPath == "" {
		return "", fmt.Errorf("key pair %q has no public key path", k.Name)
	}
	// #nosec G304 -- the path comes from the user's own configuration
	data, err := os.ReadFile(k.PublicKeyPath)
	if err != nil {
		return "", fmt.Errorf("failed to read public key %s: %w", k.PublicKeyPath, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ExpandPath expands environment variables and a leading "~" in a key path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
