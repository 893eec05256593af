package common

import (
	"context"
	"log"
	"strings"

	"nivix-bridge-go/internal/bridge"
	"nivix-bridge-go/internal/fabric"
	"nivix-bridge-go/internal/journal"
	"nivix-bridge-go/internal/models"
	"nivix-bridge-go/internal/solana"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("Loaded environment variables from .env file")
	}
}

type Services struct {
	FabricService *fabric.Service
	SolanaService *solana.Service
	Journal       *journal.Service
	Coordinator   *bridge.Coordinator
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices connects both ledger adapters, opens the pending-sync
// journal and assembles the coordinator on top of them.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	fabricService, err := fabric.NewService(cfg.Fabric)
	if err != nil {
		return nil, err
	}

	solanaService, err := solana.NewService(cfg.Solana)
	if err != nil {
		fabricService.Close()
		return nil, err
	}

	journalService, err := journal.NewService(ctx, cfg.Journal)
	if err != nil {
		fabricService.Close()
		return nil, err
	}

	currencies, err := LoadCurrencyRegistry(cfg.Solana.AssetsFile)
	if err != nil {
		fabricService.Close()
		journalService.Close()
		return nil, err
	}

	coordinator := bridge.NewCoordinator(fabricService, solanaService, journalService, currencies)

	return &Services{
		FabricService: fabricService,
		SolanaService: solanaService,
		Journal:       journalService,
		Coordinator:   coordinator,
	}, nil
}

// InitializeFabricOnly connects just the Fabric adapter. Useful for read-only
// identity operations that never touch Solana.
func InitializeFabricOnly(cfg *models.Config) (*fabric.Service, error) {
	return fabric.NewService(cfg.Fabric)
}

func (cs *Services) Close() {
	if cs.Journal != nil {
		cs.Journal.Close()
	}
	if cs.FabricService != nil {
		cs.FabricService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
