package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

const (
	defaultRiskScore    = 10
	defaultDocumentHash = "placeholder_hash"
)

// RegisterParams is a registration intent for one Solana address.
type RegisterParams struct {
	Username     string
	Address      string
	FullName     string
	HomeCurrency string
	RiskScore    int
	DocumentHash string
}

// RegisterUser writes (or supersedes) the identity record for an address.
// The subject id is derived from the address, so registering the same address
// twice updates the one record instead of creating a second.
//
// Registration marks the subject verified immediately. Attestation of the
// submitted identity data happens off-system; this workflow only records it.
func (c *Coordinator) RegisterUser(ctx context.Context, params RegisterParams) (*models.RegisterResult, error) {
	if params.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidIntent)
	}
	if params.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidIntent)
	}

	riskScore := params.RiskScore
	if riskScore == 0 {
		riskScore = defaultRiskScore
	}
	if riskScore < 0 {
		riskScore = 0
	}
	if riskScore > 100 {
		riskScore = 100
	}

	documentHash := params.DocumentHash
	if documentHash == "" {
		documentHash = defaultDocumentHash
	}

	fullName := params.FullName
	if fullName == "" {
		fullName = params.Username
	}

	if existing, err := c.identity.GetIdentityRecord(ctx, params.Address); err == nil {
		zap.L().Info("Superseding existing identity record",
			zap.String("subject_id", existing.SubjectId),
			zap.String("address", params.Address))
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("registration precheck for %s: %w", params.Address, err)
	}

	record := models.IdentityRecord{
		SubjectId:        DeriveSubjectId(params.Address),
		SolanaAddress:    params.Address,
		FullName:         fullName,
		KycVerified:      true,
		VerificationDate: time.Now().UTC().Format("2006-01-02"),
		RiskScore:        riskScore,
		DocumentHash:     documentHash,
	}

	if err := c.identity.PutIdentityRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("register %s: %w", params.Address, err)
	}

	zap.L().Info("User registered",
		zap.String("subject_id", record.SubjectId),
		zap.String("address", params.Address),
		zap.String("username", params.Username),
		zap.Int("risk_score", riskScore))

	return &models.RegisterResult{
		Address:  params.Address,
		Username: params.Username,
		Verified: true,
	}, nil
}
