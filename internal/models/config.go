package models

import "time"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig
	Fabric  FabricConfig
	Solana  SolanaConfig
	Journal JournalConfig
	Sweeper SweeperConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FabricConfig holds Fabric Gateway connection settings
type FabricConfig struct {
	PeerEndpoint  string
	GatewayPeer   string // TLS server name override, e.g. "peer0.org1.example.com"
	MspId         string
	CertPath      string
	KeyPath       string
	TlsCertPath   string // empty means a plaintext connection (local dev networks)
	ChannelName   string
	ChaincodeName string
	CallTimeout   time.Duration
}

// SolanaConfig holds Solana RPC settings
type SolanaConfig struct {
	RpcUrl      string
	Commitment  string // settlement commitment level: "confirmed" or "finalized"
	CallTimeout time.Duration
	AssetsFile  string
}

// JournalConfig holds pending-sync journal database settings
type JournalConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// SweeperConfig holds background reconciliation settings
type SweeperConfig struct {
	PollingInterval time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
	BatchSize       int
}
