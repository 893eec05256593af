package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

// GetIdentityRecord evaluates GetKYCStatus for a Solana address.
func (s *Service) GetIdentityRecord(ctx context.Context, address string) (*models.IdentityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	result, err := s.contract.EvaluateTransaction("GetKYCStatus", address)
	if err != nil {
		// The chaincode reports a missing record as an error, the same way
		// the nivix-kyc contract phrases it.
		if strings.Contains(err.Error(), "has no KYC record") {
			return nil, fmt.Errorf("%w: no KYC record for address %s", ledger.ErrNotFound, address)
		}
		return nil, fmt.Errorf("unable to get KYC status: %w", err)
	}

	var record models.IdentityRecord
	if err := json.Unmarshal(result, &record); err != nil {
		return nil, fmt.Errorf("unable to parse KYC record: %w", err)
	}

	return &record, nil
}

// PutIdentityRecord submits StoreKYCData. The chaincode keys the record by
// subject id, so a repeated write for the same subject supersedes the
// previous record rather than duplicating it.
func (s *Service) PutIdentityRecord(ctx context.Context, record models.IdentityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.SubjectId == "" || record.SolanaAddress == "" {
		return fmt.Errorf("identity record requires subjectId and solanaAddress")
	}
	if record.RiskScore < 0 || record.RiskScore > 100 {
		return fmt.Errorf("risk score must be in [0,100], got %d", record.RiskScore)
	}

	// Chaincode arguments are strings; booleans and integers are formatted
	// explicitly, never binary floats.
	_, err := s.contract.SubmitTransaction(
		"StoreKYCData",
		record.SubjectId,
		record.SolanaAddress,
		record.FullName,
		strconv.FormatBool(record.KycVerified),
		record.VerificationDate,
		strconv.Itoa(record.RiskScore),
		record.DocumentHash,
	)
	if err != nil {
		return fmt.Errorf("unable to store KYC data: %w", err)
	}

	zap.L().Info("KYC record stored",
		zap.String("subject_id", record.SubjectId),
		zap.String("address", record.SolanaAddress),
		zap.Bool("verified", record.KycVerified))

	return nil
}
