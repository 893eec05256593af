package solana

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Compile-time check: *Service must satisfy ledger.ValueLedger.
var _ ledger.ValueLedger = (*Service)(nil)

// Service is the public-ledger adapter over the Solana JSON-RPC API.
type Service struct {
	client      *rpc.Client
	commitment  rpc.CommitmentType
	callTimeout time.Duration
}

func NewService(cfg models.SolanaConfig) (*Service, error) {
	if cfg.RpcUrl == "" {
		return nil, fmt.Errorf("solana RPC URL cannot be empty")
	}
	if cfg.CallTimeout <= 0 {
		return nil, fmt.Errorf("solana call timeout must be positive, got %v", cfg.CallTimeout)
	}

	commitment, err := parseCommitment(cfg.Commitment)
	if err != nil {
		return nil, err
	}

	httpClient, err := createCustomHttpClient(cfg.CallTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	rpcClient := rpc.NewWithCustomRPCClient(jsonrpc.NewClientWithOpts(cfg.RpcUrl, &jsonrpc.RPCClientOpts{
		HTTPClient: httpClient,
	}))

	zap.L().Info("Solana RPC client initialized",
		zap.String("rpc_url", cfg.RpcUrl),
		zap.String("commitment", string(commitment)))

	return &Service{
		client:      rpcClient,
		commitment:  commitment,
		callTimeout: cfg.CallTimeout,
	}, nil
}

func parseCommitment(value string) (rpc.CommitmentType, error) {
	switch value {
	case "", "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("unsupported commitment %q (want confirmed or finalized)", value)
	}
}

func createCustomHttpClient(timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
