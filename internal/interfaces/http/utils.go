package httpinterface

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/application/auth"
	"github.com/tdex-network/tdex-vault/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/ledger"
	pubsubinfra "github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub"
)

const maxBodySize = 1 << 16

type errorStatus struct {
	err    error
	code   string
	status int
}

// errorStatuses maps known errors to the code and HTTP status returned to the
// client. The first match wins, so ledger causes come before the
// ErrTransferFailed wrapping them.
var errorStatuses = []errorStatus{
	{domain.ErrVaultLocked, "VAULT_LOCKED", http.StatusConflict},
	{domain.ErrInsufficientBalance, "INSUFFICIENT_BALANCE", http.StatusUnprocessableEntity},
	{domain.ErrArithmeticOverflow, "ARITHMETIC_OVERFLOW", http.StatusUnprocessableEntity},
	{domain.ErrAddressMismatch, "ADDRESS_MISMATCH", http.StatusBadRequest},
	{domain.ErrUnauthorized, "UNAUTHORIZED", http.StatusForbidden},
	{ledger.ErrInsufficientFundsForRent, "INSUFFICIENT_FUNDS_FOR_RENT", http.StatusUnprocessableEntity},
	{ledger.ErrInsufficientFunds, "INSUFFICIENT_BALANCE", http.StatusUnprocessableEntity},
	{ledger.ErrLamportOverflow, "ARITHMETIC_OVERFLOW", http.StatusUnprocessableEntity},
	{ledger.ErrAccountAlreadyInUse, "ACCOUNT_ALREADY_IN_USE", http.StatusConflict},
	{domain.ErrTransferFailed, "TRANSFER_FAILED", http.StatusInternalServerError},
	{domain.ErrInvalidAmount, "INVALID_AMOUNT", http.StatusBadRequest},
	{domain.ErrVaultNotFound, "VAULT_NOT_FOUND", http.StatusNotFound},
	{domain.ErrVaultAlreadyInitialized, "VAULT_ALREADY_INITIALIZED", http.StatusConflict},
	{domain.ErrInvalidAddress, "INVALID_ADDRESS", http.StatusBadRequest},
	{domain.ErrUnknownEventType, "UNKNOWN_EVENT_TYPE", http.StatusBadRequest},
	{auth.ErrInvalidSigner, "INVALID_SIGNER", http.StatusUnauthorized},
	{auth.ErrInvalidSignature, "INVALID_SIGNATURE", http.StatusUnauthorized},
	{auth.ErrSignatureExpired, "SIGNATURE_EXPIRED", http.StatusUnauthorized},
	{auth.ErrSignatureReplayed, "SIGNATURE_REPLAYED", http.StatusUnauthorized},
	{ledger.ErrFaucetDisabled, "FAUCET_DISABLED", http.StatusForbidden},
	{ledger.ErrAirdropLimitExceeded, "AIRDROP_LIMIT_EXCEEDED", http.StatusBadRequest},
	{pubsub.ErrPubSubDisabled, "WEBHOOKS_DISABLED", http.StatusNotImplemented},
	{pubsub.ErrInvalidWebhookEvent, "INVALID_WEBHOOK_EVENT", http.StatusBadRequest},
	{pubsubinfra.ErrMissingTopic, "INVALID_WEBHOOK_EVENT", http.StatusBadRequest},
	{pubsubinfra.ErrInvalidEndpoint, "INVALID_WEBHOOK_ENDPOINT", http.StatusBadRequest},
	{pubsubinfra.ErrSubscriptionNotFound, "WEBHOOK_NOT_FOUND", http.StatusNotFound},
}

// errBadRequest marks errors caused by a malformed request.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Debug("http: failed to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRequest) {
		writeJSON(w, http.StatusBadRequest, errorResponse{"BAD_REQUEST", err.Error()})
		return
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			writeJSON(w, e.status, errorResponse{e.code, err.Error()})
			return
		}
	}

	log.WithError(err).Warn("http: internal error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		"INTERNAL", http.StatusText(http.StatusInternalServerError),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %s", err)
	}
	return nil
}

func parseAddress(str string) (domain.Address, error) {
	addr, err := domain.ParseAddress(str)
	if err != nil {
		return domain.Address{}, badRequest("%s", err)
	}
	return addr, nil
}

// parsePage reads the optional page and page_size query params. No param
// means no pagination.
func parsePage(r *http.Request) (*domain.Page, error) {
	query := r.URL.Query()
	pageStr, sizeStr := query.Get("page"), query.Get("page_size")
	if pageStr == "" && sizeStr == "" {
		return nil, nil
	}

	var number, size int
	var err error
	if pageStr != "" {
		if number, err = strconv.Atoi(pageStr); err != nil || number <= 0 {
			return nil, badRequest("page must be a positive number")
		}
	}
	if sizeStr != "" {
		if size, err = strconv.Atoi(sizeStr); err != nil || size <= 0 {
			return nil, badRequest("page_size must be a positive number")
		}
	}
	page := domain.NewPage(number, size)
	return &page, nil
}
