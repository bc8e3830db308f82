package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/imamik/storagelab/internal/provisioning"
	"github.com/imamik/storagelab/internal/util/keygen"
)

const keyBits = 4096

var (
	loadKeyPair     = keygen.Load
	generateKeyPair = keygen.Generate
)

// KeyPairImport registers the public half of the configured key file as an
// EC2 key pair. With generate set a missing key file is created first.
func KeyPairImport(ctx context.Context, opts Options, generate bool) error {
	return withSession(ctx, opts, func(pCtx *provisioning.Context) error {
		cfg := pCtx.Config
		if err := cfg.RequireKeyName(); err != nil {
			return err
		}
		if err := cfg.RequireKeyFile(); err != nil {
			return err
		}

		kp, err := keyPair(cfg.KeyPair.File, generate)
		if err != nil {
			return err
		}
		fingerprint, err := kp.Fingerprint()
		if err != nil {
			return err
		}

		id, err := pCtx.Compute.ImportKeyPair(pCtx, cfg.KeyPair.Name, kp.PublicKey)
		if err != nil {
			return fmt.Errorf("failed to import key pair %s: %w", cfg.KeyPair.Name, err)
		}
		provisioning.LogResourceCreated(pCtx.Observer, "keypair", "key pair", id)
		fmt.Fprintf(output, "Key pair %s imported (%s)\n", cfg.KeyPair.Name, fingerprint)
		return nil
	})
}

func keyPair(path string, generate bool) (*keygen.KeyPair, error) {
	kp, err := loadKeyPair(path)
	if err == nil || !generate || !errors.Is(err, fs.ErrNotExist) {
		return kp, err
	}
	kp, err = generateKeyPair(keyBits)
	if err != nil {
		return nil, err
	}
	if err := kp.Save(path); err != nil {
		return nil, err
	}
	fmt.Fprintf(output, "Generated new key %s\n", path)
	return kp, nil
}
