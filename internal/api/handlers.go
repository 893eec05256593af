package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nivix-bridge-go/internal/bridge"
	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Coordinator is the slice of the bridge coordinator the HTTP layer drives.
type Coordinator interface {
	VerifyAndTransfer(ctx context.Context, params bridge.TransferParams) (*models.TransferResult, error)
	SyncTransaction(ctx context.Context, signature string) (*models.SyncResult, error)
	GetCombinedAccount(ctx context.Context, address string) (*models.CombinedAccountView, error)
	RegisterUser(ctx context.Context, params bridge.RegisterParams) (*models.RegisterResult, error)
}

// Handlers exposes the bridge workflows plus direct per-ledger lookups.
type Handlers struct {
	coordinator Coordinator
	identity    ledger.IdentityLedger
	value       ledger.ValueLedger
}

func NewHandlers(coordinator Coordinator, identity ledger.IdentityLedger, value ledger.ValueLedger) *Handlers {
	return &Handlers{
		coordinator: coordinator,
		identity:    identity,
		value:       value,
	}
}

type verifyTransferRequest struct {
	FromAddress string          `json:"fromAddress"`
	SigningKey  string          `json:"signingKey"`
	ToAddress   string          `json:"toAddress"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Memo        string          `json:"memo"`
}

func (h *Handlers) handleVerifyTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req verifyTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Currency == "" {
		req.Currency = "SOL"
	}

	result, err := h.coordinator.VerifyAndTransfer(r.Context(), bridge.TransferParams{
		FromAddress: req.FromAddress,
		SigningKey:  req.SigningKey,
		ToAddress:   req.ToAddress,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Memo:        req.Memo,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type syncTransactionRequest struct {
	Signature string `json:"signature"`
}

func (h *Handlers) handleSyncTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req syncTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.coordinator.SyncTransaction(r.Context(), req.Signature)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) handleCombinedUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	address := pathParam(r, "/api/bridge/user/")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	view, err := h.coordinator.GetCombinedAccount(r.Context(), address)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

type registerUserRequest struct {
	Username     string `json:"username"`
	Address      string `json:"address"`
	FullName     string `json:"fullName"`
	HomeCurrency string `json:"homeCurrency"`
	RiskScore    int    `json:"riskScore"`
	DocumentHash string `json:"documentHash"`
}

func (h *Handlers) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.coordinator.RegisterUser(r.Context(), bridge.RegisterParams{
		Username:     req.Username,
		Address:      req.Address,
		FullName:     req.FullName,
		HomeCurrency: req.HomeCurrency,
		RiskScore:    req.RiskScore,
		DocumentHash: req.DocumentHash,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *Handlers) handleGetKyc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	address := pathParam(r, "/api/fabric/kyc/")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	record, err := h.identity.GetIdentityRecord(r.Context(), address)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

type putKycRequest struct {
	Address      string `json:"address"`
	FullName     string `json:"fullName"`
	KycVerified  bool   `json:"kycVerified"`
	RiskScore    int    `json:"riskScore"`
	DocumentHash string `json:"documentHash"`
}

// handlePutKyc writes an identity record directly, bypassing the registration
// defaults. Used by compliance tooling to flip verification or risk scores.
func (h *Handlers) handlePutKyc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req putKycRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	record := models.IdentityRecord{
		SubjectId:        bridge.DeriveSubjectId(req.Address),
		SolanaAddress:    req.Address,
		FullName:         req.FullName,
		KycVerified:      req.KycVerified,
		VerificationDate: time.Now().UTC().Format("2006-01-02"),
		RiskScore:        req.RiskScore,
		DocumentHash:     req.DocumentHash,
	}
	if err := h.identity.PutIdentityRecord(r.Context(), record); err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

func (h *Handlers) handleGetTransferRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	transferId := pathParam(r, "/api/fabric/transaction/")
	if transferId == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	record, err := h.identity.GetTransferRecord(r.Context(), transferId)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *Handlers) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	address := pathParam(r, "/api/solana/balance/")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	balance, err := h.value.GetBalance(r.Context(), address)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"address": address,
		"balance": balance,
		"symbol":  "SOL",
	})
}

func (h *Handlers) handleGetConfirmedTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	signature := pathParam(r, "/api/solana/transaction/")
	if signature == "" {
		writeError(w, http.StatusBadRequest, "signature is required")
		return
	}

	confirmed, err := h.value.GetConfirmedTransfer(r.Context(), signature)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, confirmed)
}

// writeWorkflowError maps coordinator and adapter errors to HTTP statuses.
// Unclassified failures are logged with detail but surfaced generically.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var ambiguous *bridge.AmbiguousSubmissionError
	switch {
	case errors.Is(err, bridge.ErrInvalidIntent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bridge.ErrNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ambiguous):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error":     "transfer submission outcome unknown, resolve via sync",
			"signature": ambiguous.Signature,
		})
	default:
		zap.L().Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
