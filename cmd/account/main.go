package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"nivix-bridge-go/internal/common"
	"nivix-bridge-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	address := flag.String("address", "", "Solana address to look up (required)")
	flag.Parse()

	if *address == "" && flag.NArg() > 0 {
		*address = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

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

	view, err := services.Coordinator.GetCombinedAccount(ctx, *address)
	if err != nil {
		zap.L().Fatal("Account lookup failed", zap.String("address", *address), zap.Error(err))
	}

	common.PrintHeader("Combined Account View", common.DefaultWidth)
	fmt.Printf("Address:       %s\n", view.Address)
	fmt.Printf("KYC verified:  %t\n", view.Identity.Verified)
	fmt.Printf("Risk score:    %d\n", view.Identity.RiskScore)
	fmt.Printf("Home currency: %s\n", view.HomeCurrency)

	symbols := make([]string, 0, len(view.Balances))
	for symbol := range view.Balances {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	fmt.Println("Balances:")
	for _, symbol := range symbols {
		fmt.Printf("  %-6s %20s\n", symbol, view.Balances[symbol].String())
	}

	common.PrintFooter("Lookup complete", common.DefaultWidth)
}
