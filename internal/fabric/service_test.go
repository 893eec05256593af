package fabric

import (
	"testing"
	"time"

	"nivix-bridge-go/internal/models"
)

func validConfig() models.FabricConfig {
	return models.FabricConfig{
		PeerEndpoint:  "localhost:7051",
		GatewayPeer:   "peer0.org1.example.com",
		MspId:         "Org1MSP",
		CertPath:      "wallet/admin-cert.pem",
		KeyPath:       "wallet/admin-key.pem",
		ChannelName:   "mychannel",
		ChaincodeName: "nivix-kyc",
		CallTimeout:   15 * time.Second,
	}
}

func TestNewService_MissingPeerEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.PeerEndpoint = ""

	if _, err := NewService(cfg); err == nil {
		t.Fatal("Expected error for empty peer endpoint, got nil")
	}
}

func TestNewService_MissingMspId(t *testing.T) {
	cfg := validConfig()
	cfg.MspId = ""

	if _, err := NewService(cfg); err == nil {
		t.Fatal("Expected error for empty MSP id, got nil")
	}
}

func TestNewService_InvalidTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.CallTimeout = 0

	if _, err := NewService(cfg); err == nil {
		t.Fatal("Expected error for non-positive call timeout, got nil")
	}
}

func TestNewService_MissingIdentityFiles(t *testing.T) {
	cfg := validConfig()
	cfg.CertPath = "does/not/exist.pem"

	if _, err := NewService(cfg); err == nil {
		t.Fatal("Expected error for missing identity certificate, got nil")
	}
}
