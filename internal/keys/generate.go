package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// Generated holds a freshly generated RSA key pair in ready-to-use formats:
// the private key PEM-encoded, the public key as an authorized_keys line.
type Generated struct {
	Private []byte
	Public  []byte
}

// Generate creates a new RSA key pair with the given bit size. 4096 matches
// what the clouds this library targets accept everywhere; 2048 is the
// practical minimum.
func Generate(bits int) (*Generated, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA private key: %w", err)
	}
	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate RSA private key: %w", err)
	}

	privBlock := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	publicKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &Generated{
		Private: pem.EncodeToMemory(&privBlock),
		Public:  ssh.MarshalAuthorizedKey(publicKey),
	}, nil
}

// WriteFiles persists a generated pair to publicPath and privatePath with
// conventional permissions and returns the matching KeyPair.
func (g *Generated) WriteFiles(publicPath, privatePath, name string) (*KeyPair, error) {
	if err := writeKeyFile(privatePath, g.Private, 0o600); err != nil {
		return nil, err
	}
	if err := writeKeyFile(publicPath, g.Public, 0o644); err != nil {
		return nil, err
	}
	return New(publicPath, privatePath, name), nil
}

func writeKeyFile(path string, data []byte, mode uint32) error {
	if err := os.WriteFile(path, data, os.FileMode(mode)); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}
