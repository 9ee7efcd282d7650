package httpinterface

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/application/auth"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type handler struct {
	vaultSvc  application.VaultService
	pubsubSvc application.PubSubService
	authSvc   application.AuthService

	info     infoResponse
	upgrader websocket.Upgrader
}

func (h *handler) initializeVault(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req initializeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.verify(
		r.Context(), req.Authority, auth.InstructionInitialize, req.Authority, 0, req.signedRequest,
	); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.vaultSvc.InitializeVault(r.Context(), req.Authority)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVaultResponse(info))
}

func (h *handler) deposit(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req transferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.verify(
		r.Context(), req.Signer, auth.InstructionDeposit, req.Vault, req.Amount, req.signedRequest,
	); err != nil {
		writeError(w, err)
		return
	}

	if err := h.vaultSvc.Deposit(
		r.Context(), req.Signer, req.Vault, req.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	h.writeVault(w, r, req.Vault)
}

func (h *handler) withdraw(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req transferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.verify(
		r.Context(), req.Signer, auth.InstructionWithdraw, req.Vault, req.Amount, req.signedRequest,
	); err != nil {
		writeError(w, err)
		return
	}

	if err := h.vaultSvc.Withdraw(
		r.Context(), req.Signer, req.Vault, req.Amount,
	); err != nil {
		writeError(w, err)
		return
	}
	h.writeVault(w, r, req.Vault)
}

func (h *handler) setVaultLock(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req lockRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.verify(
		r.Context(), req.Signer, auth.InstructionSetLock, req.Vault, auth.LockAmount(req.Locked),
		req.signedRequest,
	); err != nil {
		writeError(w, err)
		return
	}

	if err := h.vaultSvc.SetVaultLock(
		r.Context(), req.Signer, req.Vault, req.Locked,
	); err != nil {
		writeError(w, err)
		return
	}
	h.writeVault(w, r, req.Vault)
}

func (h *handler) getVault(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseAddress(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeVault(w, r, addr)
}

func (h *handler) getVaultByAuthority(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	authority, err := parseAddress(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := h.vaultSvc.GetVaultByAuthority(r.Context(), authority)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVaultResponse(info))
}

func (h *handler) getAccount(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseAddress(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := h.vaultSvc.GetAccount(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(info))
}

func (h *handler) listEvents(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.vaultSvc.ListEvents(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{events})
}

func (h *handler) listVaultEvents(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseAddress(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.vaultSvc.ListEventsForVault(r.Context(), addr, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{events})
}

func (h *handler) airdrop(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req faucetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.To.IsZero() {
		writeError(w, badRequest("missing recipient"))
		return
	}

	if err := h.vaultSvc.Airdrop(r.Context(), req.To, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	info, err := h.vaultSvc.GetAccount(r.Context(), req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(info))
}

func (h *handler) addWebhook(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var req webhookRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.pubsubSvc.AddWebhook(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handler) listWebhooks(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	hooks, err := h.pubsubSvc.ListWebhooks(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWebhooksResponse(hooks))
}

func (h *handler) removeWebhook(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	if err := h.pubsubSvc.RemoveWebhook(r.Context(), ps.ByName("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getInfo(
	w http.ResponseWriter, _ *http.Request, _ httprouter.Params,
) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h *handler) verify(
	ctx context.Context, signer domain.Address, instruction string,
	target domain.Address, amount uint64, req signedRequest,
) error {
	sig, err := req.signature()
	if err != nil {
		return badRequest("%s", err)
	}
	return h.authSvc.VerifyInstruction(
		ctx, signer, instruction, target, amount, req.Timestamp, sig,
	)
}

func (h *handler) writeVault(
	w http.ResponseWriter, r *http.Request, addr domain.Address,
) {
	info, err := h.vaultSvc.GetVault(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVaultResponse(info))
}

func newInfoResponse(
	programID domain.Address, rent domain.Rent, faucet bool,
	buildData ports.BuildData,
) infoResponse {
	info := infoResponse{
		ProgramID:      programID.String(),
		FaucetEnabled:  faucet,
		VaultReserve:   rent.MinimumBalance(domain.VaultAccountSpace),
		AccountReserve: rent.MinimumBalance(0),
	}
	if buildData != nil {
		info.Version = buildData.GetVersion()
		info.Commit = buildData.GetCommit()
		info.Date = buildData.GetDate()
	}
	return info
}
