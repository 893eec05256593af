package bridge

import (
	"context"
	"errors"
	"fmt"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetCombinedAccount joins Solana account state with the Fabric identity
// record. The Solana side is mandatory (no account, no view); the identity
// side degrades to unverified with a zero risk score when absent or
// unreachable, so a Fabric outage never hides a public-ledger account.
func (c *Coordinator) GetCombinedAccount(ctx context.Context, address string) (*models.CombinedAccountView, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidIntent)
	}

	balance, err := c.value.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("combined view for %s: %w", address, err)
	}

	identity := models.IdentityStatus{Verified: false, RiskScore: 0}
	if record, err := c.identity.GetIdentityRecord(ctx, address); err == nil {
		identity.Verified = record.KycVerified
		identity.RiskScore = record.RiskScore
	} else if !errors.Is(err, ledger.ErrNotFound) {
		zap.L().Warn("Identity record unavailable, reporting unverified",
			zap.String("address", address),
			zap.Error(err))
	}

	return &models.CombinedAccountView{
		Address:      address,
		Identity:     identity,
		HomeCurrency: "USD",
		Balances: map[string]decimal.Decimal{
			nativeCurrency: balance,
		},
	}, nil
}
