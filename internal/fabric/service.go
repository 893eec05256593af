package fabric

import (
	"fmt"
	"os"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Compile-time check: *Service must satisfy ledger.IdentityLedger.
var _ ledger.IdentityLedger = (*Service)(nil)

// Service is the permissioned-ledger adapter. It wraps a Fabric Gateway
// connection to the KYC chaincode. The grpc connection is shared and pooled;
// every chaincode call is bounded by the gateway-level timeouts set at
// connect time, so no session outlives a request.
type Service struct {
	conn     *grpc.ClientConn
	gateway  *client.Gateway
	contract *client.Contract
}

func NewService(cfg models.FabricConfig) (*Service, error) {
	if cfg.PeerEndpoint == "" {
		return nil, fmt.Errorf("fabric peer endpoint cannot be empty")
	}
	if cfg.MspId == "" {
		return nil, fmt.Errorf("fabric MSP id cannot be empty")
	}
	if cfg.CallTimeout <= 0 {
		return nil, fmt.Errorf("fabric call timeout must be positive, got %v", cfg.CallTimeout)
	}

	zap.L().Info("Connecting to Fabric Gateway",
		zap.String("peer", cfg.PeerEndpoint),
		zap.String("channel", cfg.ChannelName),
		zap.String("chaincode", cfg.ChaincodeName))

	conn, err := newGrpcConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to peer: %w", err)
	}

	id, err := newIdentity(cfg)
	if err != nil {
		connErr := conn.Close()
		if connErr != nil {
			zap.L().Warn("Failed to close peer connection", zap.Error(connErr))
		}
		return nil, err
	}

	sign, err := newSigner(cfg)
	if err != nil {
		connErr := conn.Close()
		if connErr != nil {
			zap.L().Warn("Failed to close peer connection", zap.Error(connErr))
		}
		return nil, err
	}

	gateway, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(cfg.CallTimeout),
		client.WithEndorseTimeout(cfg.CallTimeout),
		client.WithSubmitTimeout(cfg.CallTimeout),
		client.WithCommitStatusTimeout(time.Minute),
	)
	if err != nil {
		connErr := conn.Close()
		if connErr != nil {
			zap.L().Warn("Failed to close peer connection", zap.Error(connErr))
		}
		return nil, fmt.Errorf("unable to connect to gateway: %w", err)
	}

	contract := gateway.GetNetwork(cfg.ChannelName).GetContract(cfg.ChaincodeName)

	zap.L().Info("Fabric service initialized",
		zap.String("msp_id", cfg.MspId),
		zap.String("channel", cfg.ChannelName))

	return &Service{conn: conn, gateway: gateway, contract: contract}, nil
}

func (s *Service) Close() {
	if err := s.gateway.Close(); err != nil {
		zap.L().Warn("Failed to close Fabric gateway", zap.Error(err))
	}
	if err := s.conn.Close(); err != nil {
		zap.L().Warn("Failed to close peer connection", zap.Error(err))
	}
}

func newGrpcConnection(cfg models.FabricConfig) (*grpc.ClientConn, error) {
	if cfg.TlsCertPath == "" {
		zap.L().Warn("Connecting to Fabric peer without TLS",
			zap.String("peer", cfg.PeerEndpoint))
		return grpc.NewClient(cfg.PeerEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	creds, err := credentials.NewClientTLSFromFile(cfg.TlsCertPath, cfg.GatewayPeer)
	if err != nil {
		return nil, fmt.Errorf("unable to load peer TLS certificate: %w", err)
	}
	return grpc.NewClient(cfg.PeerEndpoint, grpc.WithTransportCredentials(creds))
}

func newIdentity(cfg models.FabricConfig) (*identity.X509Identity, error) {
	certPEM, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read identity certificate %s: %w", cfg.CertPath, err)
	}

	cert, err := identity.CertificateFromPEM(certPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse identity certificate: %w", err)
	}

	id, err := identity.NewX509Identity(cfg.MspId, cert)
	if err != nil {
		return nil, fmt.Errorf("unable to create X509 identity: %w", err)
	}
	return id, nil
}

func newSigner(cfg models.FabricConfig) (identity.Sign, error) {
	keyPEM, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read signing key %s: %w", cfg.KeyPath, err)
	}

	key, err := identity.PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse signing key: %w", err)
	}

	sign, err := identity.NewPrivateKeySign(key)
	if err != nil {
		return nil, fmt.Errorf("unable to create signer: %w", err)
	}
	return sign, nil
}
