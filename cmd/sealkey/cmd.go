// Command sealkey stores the Alpha Vantage API key for the api service,
// either as KMS ciphertext printed for ALPHAVANTAGEKEYCIPHERTEXT or as a
// new Secret Manager version for ALPHAVANTAGESECRET.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samasastudio/sq-gendash/internal/bootstrap"
	"github.com/samasastudio/sq-gendash/internal/config"
	"github.com/samasastudio/sq-gendash/internal/crypto"
	"github.com/samasastudio/sq-gendash/internal/store"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

func main() {
	secretID := flag.String("secret", "", "store the key as a new version of this Secret Manager secret instead of encrypting it")
	flag.Parse()

	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	// run returns before exiting so its deferred Close calls happen
	if err := run(context.Background(), cfg, log, os.Stdin, *secretID); err != nil {
		log.Error("sealkey failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, in io.Reader, secretID string) error {
	key, err := readKey(in)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}

	if secretID != "" {
		client, err := bootstrap.InitSecretManager(ctx)
		if err != nil {
			return fmt.Errorf("secret manager init: %w", err)
		}
		defer client.Close()

		if err := store.NewSecretsStore(client, cfg.ProjectID).StoreSecret(ctx, secretID, key); err != nil {
			return fmt.Errorf("store secret: %w", err)
		}
		log.Info("alpha vantage key stored", "secret", secretID)
		return nil
	}

	if cfg.KMSKeyName == "" {
		return fmt.Errorf("KMSKEYNAME is not set")
	}
	client, err := bootstrap.InitKMS(ctx)
	if err != nil {
		return fmt.Errorf("kms init: %w", err)
	}
	defer client.Close()

	sealed, err := crypto.NewKMS(client, cfg.KMSKeyName).KmsEncrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	fmt.Println(sealed)
	return nil
}

// readKey reads the key from stdin so it stays out of shell history.
func readKey(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no key on stdin: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	return key, nil
}
