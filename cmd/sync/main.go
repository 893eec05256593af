package main

import (
	"context"
	"flag"
	"fmt"

	"nivix-bridge-go/internal/common"
	"nivix-bridge-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	signature := flag.String("signature", "", "Solana transaction signature to sync to Fabric (required)")
	flag.Parse()

	if *signature == "" && flag.NArg() > 0 {
		*signature = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if *signature == "" {
		zap.L().Fatal("Missing required flag: -signature")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("Transaction Sync", common.DefaultWidth)
	fmt.Printf("Signature: %s\n", *signature)

	result, err := services.Coordinator.SyncTransaction(ctx, *signature)
	if err != nil {
		zap.L().Fatal("Sync failed", zap.String("signature", *signature), zap.Error(err))
	}

	fmt.Printf("Transfer ID:  %s\n", result.Record.TransferId)
	fmt.Printf("From:         %s\n", result.Record.FromAddress)
	fmt.Printf("To:           %s\n", result.Record.ToAddress)
	fmt.Printf("Amount:       %s %s\n", result.Record.Amount.String(), result.Record.Currency)
	fmt.Printf("Settled at:   %s\n", result.Record.SettledAt.Format("2006-01-02 15:04:05 MST"))

	common.PrintFooter("Transaction recorded on Fabric", common.DefaultWidth)
}
