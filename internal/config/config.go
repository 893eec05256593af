package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"nivix-bridge-go/internal/models"
)

func Load() (*models.Config, error) {
	fabricTimeout, err := getEnvDuration("FABRIC_CALL_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	solanaTimeout, err := getEnvDuration("SOLANA_CALL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	idleTimeout, err := getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("JOURNAL_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("JOURNAL_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("JOURNAL_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("SWEEPER_POLLING_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvDuration("SWEEPER_CLEANUP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	retention, err := getEnvDuration("SWEEPER_RETENTION", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Server: models.ServerConfig{
			Host:         getEnvString("HTTP_HOST", "0.0.0.0"),
			Port:         getEnvInt("HTTP_PORT", 3000),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		Fabric: models.FabricConfig{
			PeerEndpoint:  getEnvString("FABRIC_PEER_ENDPOINT", "localhost:7051"),
			GatewayPeer:   getEnvString("FABRIC_GATEWAY_PEER", "peer0.org1.example.com"),
			MspId:         getEnvString("FABRIC_MSP_ID", "Org1MSP"),
			CertPath:      getEnvString("FABRIC_CERT_PATH", "wallet/admin-cert.pem"),
			KeyPath:       getEnvString("FABRIC_KEY_PATH", "wallet/admin-key.pem"),
			TlsCertPath:   getEnvString("FABRIC_TLS_CERT_PATH", ""),
			ChannelName:   getEnvString("FABRIC_CHANNEL", "mychannel"),
			ChaincodeName: getEnvString("FABRIC_CHAINCODE", "nivix-kyc"),
			CallTimeout:   fabricTimeout,
		},
		Solana: models.SolanaConfig{
			RpcUrl:      getEnvString("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
			Commitment:  getEnvString("SOLANA_COMMITMENT", "confirmed"),
			CallTimeout: solanaTimeout,
			AssetsFile:  getEnvString("ASSETS_FILE", "assets.yaml"),
		},
		Journal: models.JournalConfig{
			Path:            getEnvString("JOURNAL_PATH", "pending-syncs.db"),
			MaxOpenConns:    getEnvInt("JOURNAL_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("JOURNAL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Sweeper: models.SweeperConfig{
			PollingInterval: pollingInterval,
			CleanupInterval: cleanupInterval,
			Retention:       retention,
			BatchSize:       getEnvInt("SWEEPER_BATCH_SIZE", 50),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
