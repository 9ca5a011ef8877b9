package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager that signs session tokens.
//
// Storage modes:
//   - "ephemeral": Keys are generated on startup and stored only in memory.
//     Every member is signed out when the service restarts.
//   - "persistent": Keys are sealed with the master key and stored in the
//     database, so sessions survive restarts.
func InitSessionKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	var keyManager *jwtx.KeyManager
	var err error

	switch cfg.KeyStorageMode {
	case "persistent":
		if cfg.MasterKeyPath == "" {
			return nil, errors.New("GYMGATE_MASTER_KEY_PATH is required in persistent key mode")
		}
		sealer, err := cryptox.LoadKeyCipher(cfg.MasterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load master key: %w", err)
		}
		logger.Info("master key loaded", "path", cfg.MasterKeyPath)

		logger.Info("initializing persistent key manager",
			"num_keys", cfg.NumKeys,
			"lifetime", cfg.KeyLifetime,
		)

		keyManager, err = jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:    store.NewKeyStoreAdapter(db),
			Sealer:   sealer,
			Issuer:   cfg.Issuer,
			NumKeys:  cfg.NumKeys,
			Lifetime: cfg.KeyLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded/generated",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)

	case "ephemeral":
		fallthrough
	default:
		logger.Info("initializing ephemeral key manager", "num_keys", cfg.NumKeys)

		keyManager, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
			Issuer:  cfg.Issuer,
			NumKeys: cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)

		logger.Warn("existing sessions are invalid after restart in ephemeral key mode")
	}

	return keyManager, nil
}
