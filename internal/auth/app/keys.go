package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/epargne/authd/pkg/jwtx"
)

const signingKeyID = "epargne-auth-key-001"

// initSigningKey loads the Ed25519 signing key from the configured PEM
// file, or generates an ephemeral one when no file is configured. An
// ephemeral key invalidates all outstanding tokens on restart, which is
// fine for dev but logged loudly so it is never missed in prod.
func initSigningKey(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		raw, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read signing key file: %w", err)
		}
		pemKey = raw
		logger.Info("signing key loaded", "file", cfg.SigningKeyFile)
	} else {
		raw, err := jwtx.GenerateKeyPEM()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		pemKey = raw
		logger.Warn("no signing key file configured, generated an ephemeral key; tokens will not survive a restart")
	}

	signer, err := jwtx.NewSignerFromPEM(signingKeyID, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, nil, fmt.Errorf("signing key failed validation: %w", err)
	}

	verifier := jwtx.NewVerifier(signer.Public(), cfg.Issuer)
	return signer, verifier, nil
}
