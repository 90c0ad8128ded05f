// Package httpapi exposes the treasury service as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
	"github.com/guildforge/treasury/internal/treasury/service"
)

// defaultHistoryLimit bounds list endpoints when no limit is given.
const defaultHistoryLimit = 50

// Handler holds dependencies for the treasury HTTP handlers.
type Handler struct {
	svc    *service.Service
	grants *GrantConfig
}

// NewHandler creates a treasury API handler. A nil grant config disables
// grant verification; the API then trusts the X-Actor header, which is only
// acceptable behind an authenticating gateway.
func NewHandler(svc *service.Service, grants *GrantConfig) *Handler {
	return &Handler{svc: svc, grants: grants}
}

// Routes builds the treasury API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)

	mux.HandleFunc("POST /v1/treasuries", h.initializeTreasury)
	mux.HandleFunc("GET /v1/treasuries/{id}", h.getTreasury)
	mux.HandleFunc("GET /v1/treasuries/{id}/balance", h.getBalance)
	mux.HandleFunc("GET /v1/treasuries/{id}/transactions", h.listTransactions)
	mux.HandleFunc("GET /v1/treasuries/{id}/events", h.listEvents)
	mux.HandleFunc("POST /v1/treasuries/{id}/deposits", h.deposit)
	mux.HandleFunc("POST /v1/treasuries/{id}/withdrawals", h.proposeWithdrawal)
	mux.HandleFunc("PUT /v1/treasuries/{id}/budgets/{category}", h.setBudget)
	mux.HandleFunc("PUT /v1/treasuries/{id}/allowances", h.grantAllowance)
	mux.HandleFunc("POST /v1/treasuries/{id}/pause", h.pause)
	mux.HandleFunc("POST /v1/treasuries/{id}/high-value-threshold", h.setHighValueThreshold)

	mux.HandleFunc("POST /v1/transactions/{id}/approvals", h.approveTransaction)
	mux.HandleFunc("POST /v1/transactions/{id}/executions", h.executeTransaction)

	mux.HandleFunc("POST /internal/v1/treasuries/{id}/milestone-payments", h.milestonePayment)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actor resolves the caller identity from the request.
func (h *Handler) actor(r *http.Request) (string, error) {
	if h.grants == nil {
		actor := strings.TrimSpace(r.Header.Get("X-Actor"))
		if actor == "" {
			return "", apperrors.New(apperrors.CodeUnauthenticated, "missing X-Actor header")
		}
		return actor, nil
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "missing bearer grant")
	}
	return h.grants.VerifyActorGrant(token)
}

type initializeTreasuryRequest struct {
	GuildID           uint64   `json:"guild_id"`
	Signers           []string `json:"signers"`
	ApprovalThreshold int      `json:"approval_threshold"`
}

func (h *Handler) initializeTreasury(w http.ResponseWriter, r *http.Request) {
	if _, err := h.actor(r); err != nil {
		writeError(w, err)
		return
	}
	var req initializeTreasuryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	treasury, err := h.svc.InitializeTreasury(r.Context(), req.GuildID, req.Signers, req.ApprovalThreshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, treasuryResponseFrom(treasury))
}

func (h *Handler) getTreasury(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	treasury, err := h.svc.GetTreasury(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treasuryResponseFrom(treasury))
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	token := r.URL.Query().Get("token")
	balance, err := h.svc.GetBalance(r.Context(), id, token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "balance": balance})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	limit := queryLimit(r, defaultHistoryLimit)
	history, err := h.svc.GetTransactionHistory(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(history))
	for _, tx := range history {
		out = append(out, transactionResponseFrom(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	limit := queryLimit(r, defaultHistoryLimit)
	events, err := h.svc.ListEvents(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

type depositRequest struct {
	Token  string `json:"token"`
	Amount int64  `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.svc.Deposit(r.Context(), id, actor, req.Token, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transactionResponseFrom(tx))
}

type withdrawalRequest struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
}

func (h *Handler) proposeWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req withdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	txType, err := parseProposalType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.svc.ProposeWithdrawal(r.Context(), service.WithdrawalProposal{
		TreasuryID: id,
		Proposer:   actor,
		Recipient:  req.Recipient,
		Token:      req.Token,
		Amount:     req.Amount,
		Reason:     req.Reason,
		Type:       txType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transactionResponseFrom(tx))
}

func (h *Handler) approveTransaction(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.svc.ApproveTransaction(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionResponseFrom(tx))
}

func (h *Handler) executeTransaction(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.svc.ExecuteTransaction(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionResponseFrom(tx))
}

type setBudgetRequest struct {
	Allocated     int64 `json:"allocated"`
	PeriodSeconds int64 `json:"period_seconds"`
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	category := r.PathValue("category")
	budget, err := h.svc.SetBudget(r.Context(), id, actor, category, req.Allocated, time.Duration(req.PeriodSeconds)*time.Second)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetResponseFrom(budget))
}

type grantAllowanceRequest struct {
	Admin           string `json:"admin"`
	Token           string `json:"token"`
	AmountPerPeriod int64  `json:"amount_per_period"`
	PeriodSeconds   int64  `json:"period_seconds"`
}

func (h *Handler) grantAllowance(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req grantAllowanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	allowance, err := h.svc.GrantAllowance(r.Context(), id, actor, req.Admin, req.Token, req.AmountPerPeriod, time.Duration(req.PeriodSeconds)*time.Second)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allowanceResponseFrom(allowance))
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req pauseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	treasury, err := h.svc.EmergencyPause(r.Context(), id, actor, req.Paused)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treasuryResponseFrom(treasury))
}

type thresholdRequest struct {
	Threshold int64 `json:"threshold"`
}

func (h *Handler) setHighValueThreshold(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	treasury, err := h.svc.SetHighValueThreshold(r.Context(), id, actor, req.Threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treasuryResponseFrom(treasury))
}

type milestonePaymentRequest struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
	Amount    int64  `json:"amount"`
}

func (h *Handler) milestonePayment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req milestonePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.svc.ExecuteMilestonePayment(r.Context(), id, actor, req.Recipient, req.Token, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transactionResponseFrom(tx))
}

func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.CodeTreasuryNotFound, "invalid id")
	}
	return id, nil
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fallback
	}
	return limit
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}
	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:     string(appErr.Code),
		Message:  appErr.Message,
		Metadata: appErr.Metadata,
	}})
}
