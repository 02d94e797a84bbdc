package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bridgeapp "github.com/nextpos/printing/internal/application/bridge"
	"github.com/nextpos/printing/internal/infrastructure/auth"
	"github.com/nextpos/printing/internal/infrastructure/config"
	"github.com/nextpos/printing/internal/infrastructure/keystore"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/infrastructure/persistence"
	"github.com/nextpos/printing/internal/infrastructure/signing"
)

func main() {
	var (
		logLevel    string
		username    string
		userID      string
		permissions string
		ttl         time.Duration
	)

	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&username, "user", "admin", "Username for the token command")
	flag.StringVar(&userID, "user-id", "", "User ID for the token command (default: random)")
	flag.StringVar(&permissions, "perm", auth.PermissionSettingsWrite+","+auth.PermissionBridgeKeys,
		"Comma separated permissions for the token command")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default: jwt.access_token_expiration)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&config.LogConfig{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "migrate":
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Settings tables are up to date", zap.String("driver", cfg.Database.Driver))

	case "keys":
		svc, err := credentialService(ctx, cfg, log)
		if err != nil {
			log.Fatal("Failed to open key store", zap.Error(err))
		}
		result, err := svc.EnsureKeys(ctx)
		if err != nil {
			log.Fatal("Failed to prepare key pair", zap.Error(err))
		}
		if result.Generated {
			log.Info("Generated key pair", zap.String("key_store", result.KeyStore))
		} else {
			log.Info("Key pair already present", zap.String("key_store", result.KeyStore))
		}

	case "cert":
		svc, err := credentialService(ctx, cfg, log)
		if err != nil {
			log.Fatal("Failed to open key store", zap.Error(err))
		}
		cert, err := svc.GetCertificate(ctx)
		if err != nil {
			log.Fatal("Failed to read certificate", zap.Error(err))
		}
		fmt.Print(cert)

	case "token":
		id := uuid.New()
		if userID != "" {
			if id, err = uuid.Parse(userID); err != nil {
				log.Fatal("Invalid user ID", zap.String("value", userID))
			}
		}
		token, err := auth.NewJWTService(cfg.JWT).GenerateToken(auth.GenerateTokenInput{
			UserID:      id,
			Username:    username,
			Permissions: splitList(permissions),
			Expiration:  ttl,
		})
		if err != nil {
			log.Fatal("Failed to issue token", zap.Error(err))
		}
		log.Info("Issued token",
			zap.String("user", username),
			zap.Time("expires_at", token.ExpiresAt),
		)
		fmt.Println(token.AccessToken)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func credentialService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*bridgeapp.CredentialService, error) {
	store, err := keystore.Open(ctx, cfg.Bridge, &cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	return bridgeapp.NewCredentialService(store, signing.GenerateOptions{
		CommonName:   cfg.Bridge.CommonName,
		Organization: cfg.Bridge.Organization,
		Validity:     cfg.Bridge.CertValidity,
	}, log), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Print service administration

Usage:
  printctl [flags] <command>

Commands:
  migrate   Create or update the settings tables
  keys      Generate the print bridge key pair unless one is stored
  cert      Print the print bridge certificate (PEM)
  token     Issue a staff token for the admin endpoints

Flags:
`)
	flag.PrintDefaults()
}
