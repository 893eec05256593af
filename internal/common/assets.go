package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type CurrencyConfig struct {
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
}

type CurrenciesConfig struct {
	Currencies []CurrencyConfig `yaml:"currencies"`
}

// DefaultCurrencies is used when no assets file is present. SOL amounts are
// lamport-denominated on chain (9 decimal places).
var DefaultCurrencies = map[string]int32{
	"SOL":  9,
	"USDC": 6,
	"USDT": 6,
	"USD":  2,
}

// LoadCurrencyRegistry reads the currency registry (symbol -> decimal
// precision) from a yaml file. A missing file falls back to the defaults.
func LoadCurrencyRegistry(assetsFile string) (map[string]int32, error) {
	var assetsPath string
	if filepath.IsAbs(assetsFile) {
		assetsPath = assetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		assetsPath = filepath.Join(wd, assetsFile)
	}

	data, err := os.ReadFile(assetsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCurrencies, nil
		}
		return nil, fmt.Errorf("unable to read %s: %w", assetsFile, err)
	}

	var config CurrenciesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", assetsFile, err)
	}

	registry := make(map[string]int32, len(config.Currencies))
	for i, currency := range config.Currencies {
		if currency.Symbol == "" {
			return nil, fmt.Errorf("currency at index %d missing symbol", i)
		}
		if currency.Decimals < 0 {
			return nil, fmt.Errorf("currency %s has negative decimals", currency.Symbol)
		}
		registry[currency.Symbol] = currency.Decimals
	}

	return registry, nil
}
