package main

import (
	"context"
	"flag"
	"fmt"

	"nivix-bridge-go/internal/bridge"
	"nivix-bridge-go/internal/common"
	"nivix-bridge-go/internal/config"

	"go.uber.org/zap"
)

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < 2 {
		return fmt.Errorf("username must be at least 2 characters")
	}
	return nil
}

func main() {
	username := flag.String("username", "", "Username for the new subject (required)")
	address := flag.String("address", "", "Solana address to register (required)")
	fullName := flag.String("name", "", "Full legal name (defaults to username)")
	homeCurrency := flag.String("currency", "USD", "Home currency")
	riskScore := flag.Int("risk", 0, "Initial risk score 0-100 (0 uses the default)")
	documentHash := flag.String("document", "", "KYC document hash")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if err := validateUsername(*username); err != nil {
		zap.L().Fatal("Invalid username", zap.Error(err))
	}
	if *address == "" {
		zap.L().Fatal("Missing required flag: -address")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("User Registration", common.DefaultWidth)

	result, err := services.Coordinator.RegisterUser(ctx, bridge.RegisterParams{
		Username:     *username,
		Address:      *address,
		FullName:     *fullName,
		HomeCurrency: *homeCurrency,
		RiskScore:    *riskScore,
		DocumentHash: *documentHash,
	})
	if err != nil {
		zap.L().Fatal("Registration failed",
			zap.String("username", *username),
			zap.String("address", *address),
			zap.Error(err))
	}

	fmt.Printf("Username:   %s\n", result.Username)
	fmt.Printf("Address:    %s\n", result.Address)
	fmt.Printf("Subject ID: %s\n", bridge.DeriveSubjectId(result.Address))
	fmt.Printf("Verified:   %t\n", result.Verified)

	common.PrintFooter("Identity record stored on Fabric", common.DefaultWidth)
}
