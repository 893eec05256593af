package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCurrencyRegistry_MissingFileFallsBack(t *testing.T) {
	registry, err := LoadCurrencyRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadCurrencyRegistry failed: %v", err)
	}
	if registry["SOL"] != 9 {
		t.Errorf("Expected SOL decimals 9 from defaults, got %d", registry["SOL"])
	}
	if registry["USD"] != 2 {
		t.Errorf("Expected USD decimals 2 from defaults, got %d", registry["USD"])
	}
}

func TestLoadCurrencyRegistry_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	content := `currencies:
  - symbol: SOL
    decimals: 9
  - symbol: EURC
    decimals: 6
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	registry, err := LoadCurrencyRegistry(path)
	if err != nil {
		t.Fatalf("LoadCurrencyRegistry failed: %v", err)
	}
	if len(registry) != 2 {
		t.Fatalf("Expected 2 currencies, got %d", len(registry))
	}
	if registry["EURC"] != 6 {
		t.Errorf("Expected EURC decimals 6, got %d", registry["EURC"])
	}
}

func TestLoadCurrencyRegistry_RejectsMissingSymbol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	content := `currencies:
  - decimals: 9
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := LoadCurrencyRegistry(path); err == nil {
		t.Fatal("Expected error for currency without symbol, got nil")
	}
}
