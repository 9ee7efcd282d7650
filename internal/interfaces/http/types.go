package httpinterface

import (
	"encoding/hex"
	"fmt"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

// signedRequest carries the proof that the signer authorized the request.
type signedRequest struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

func (r signedRequest) signature() ([]byte, error) {
	sig, err := hex.DecodeString(r.Signature)
	if err != nil || len(sig) <= 0 {
		return nil, fmt.Errorf("invalid signature format, must be hex encoded")
	}
	return sig, nil
}

type initializeRequest struct {
	Authority domain.Address `json:"authority"`
	signedRequest
}

type transferRequest struct {
	Vault  domain.Address `json:"vault"`
	Amount uint64         `json:"amount"`
	Signer domain.Address `json:"signer"`
	signedRequest
}

type lockRequest struct {
	Vault  domain.Address `json:"vault"`
	Locked bool           `json:"locked"`
	Signer domain.Address `json:"signer"`
	signedRequest
}

type faucetRequest struct {
	To     domain.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type webhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

func (r webhookRequest) GetEvent() string    { return r.Event }
func (r webhookRequest) GetEndpoint() string { return r.Endpoint }
func (r webhookRequest) GetSecret() string   { return r.Secret }

type vaultResponse struct {
	Address        string `json:"address"`
	Authority      string `json:"authority"`
	Bump           uint8  `json:"bump"`
	Locked         bool   `json:"locked"`
	Balance        uint64 `json:"balance"`
	BalanceSol     string `json:"balance_sol"`
	MinimumReserve uint64 `json:"minimum_reserve"`
	Spendable      uint64 `json:"spendable"`
}

func toVaultResponse(info ports.VaultInfo) vaultResponse {
	return vaultResponse{
		Address:        info.GetAddress(),
		Authority:      info.GetAuthority(),
		Bump:           info.GetBump(),
		Locked:         info.IsLocked(),
		Balance:        info.GetBalance(),
		BalanceSol:     mathutil.FormatSol(info.GetBalance()),
		MinimumReserve: info.GetMinimumReserve(),
		Spendable:      info.GetSpendable(),
	}
}

type accountResponse struct {
	Address        string `json:"address"`
	Balance        uint64 `json:"balance"`
	BalanceSol     string `json:"balance_sol"`
	MinimumReserve uint64 `json:"minimum_reserve"`
	Space          uint64 `json:"space"`
}

func toAccountResponse(info ports.AccountInfo) accountResponse {
	return accountResponse{
		Address:        info.GetAddress(),
		Balance:        info.GetBalance(),
		BalanceSol:     mathutil.FormatSol(info.GetBalance()),
		MinimumReserve: info.GetMinimumReserve(),
		Space:          info.GetSpace(),
	}
}

type eventsResponse struct {
	Events []domain.Event `json:"events"`
}

type webhookResponse struct {
	Id        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type webhooksResponse struct {
	Webhooks []webhookResponse `json:"webhooks"`
}

func toWebhooksResponse(hooks []ports.WebhookInfo) webhooksResponse {
	res := make([]webhookResponse, 0, len(hooks))
	for _, h := range hooks {
		res = append(res, webhookResponse{
			Id:        h.GetId(),
			Event:     h.GetEvent(),
			Endpoint:  h.GetEndpoint(),
			IsSecured: h.IsSecured(),
		})
	}
	return webhooksResponse{res}
}

type infoResponse struct {
	ProgramID      string `json:"program_id"`
	FaucetEnabled  bool   `json:"faucet_enabled"`
	VaultReserve   uint64 `json:"vault_reserve"`
	AccountReserve uint64 `json:"account_reserve"`
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
