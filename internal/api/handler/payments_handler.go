package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/api/middleware"
	"github.com/rideshare-market/backend/internal/app/service"
	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
)

// PaymentsHandler exposes the payments service's endpoints. The user-facing
// ones (add, view) delegate token checks to identity; the transfer and
// balance primitives are internal only.
type PaymentsHandler struct {
	paymentsService *service.PaymentsService
	identity        *client.IdentityClient
	reset           func(context.Context) error
	logger          *zap.Logger
}

func NewPaymentsHandler(
	paymentsService *service.PaymentsService,
	identity *client.IdentityClient,
	reset func(context.Context) error,
	logger *zap.Logger,
) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: paymentsService,
		identity:        identity,
		reset:           reset,
		logger:          logger,
	}
}

func (h *PaymentsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clear", h.clear)
	r.Post("/add", h.add)
	r.Get("/view", h.view)
}

func (h *PaymentsHandler) RegisterInternalRoutes(r chi.Router) {
	r.Post("/initialize", h.initialize)
	r.Post("/check_balance", h.checkBalance)
	r.Post("/transfer", h.transfer)
}

func (h *PaymentsHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.logger.Error("store reset failed", zap.Error(err))
	}
	common.RespondWithStatus(w, 1)
}

func (h *PaymentsHandler) initialize(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	if err := h.paymentsService.Initialize(r.Context(), params.Get("username"), params.Get("amount")); err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}

func (h *PaymentsHandler) add(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithStatus(w, 2)
		return
	}
	info, err := h.identity.VerifyToken(r.Context(), token)
	if err != nil {
		common.RespondWithStatus(w, 2)
		return
	}

	params := common.ParseParams(r)
	if err := h.paymentsService.Add(r.Context(), info.Username, params.Get("amount")); err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}

type balanceResponse struct {
	Status  int    `json:"status"`
	Balance string `json:"balance"`
}

func (h *PaymentsHandler) view(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithJSON(w, http.StatusOK, balanceResponse{Status: 2, Balance: common.Null})
		return
	}
	info, err := h.identity.VerifyToken(r.Context(), token)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, balanceResponse{Status: 2, Balance: common.Null})
		return
	}

	balance, err := h.paymentsService.View(r.Context(), info.Username)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, balanceResponse{Status: 2, Balance: common.Null})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, balanceResponse{Status: 1, Balance: balance})
}

type checkBalanceResponse struct {
	Status    int      `json:"status"`
	HasEnough bool     `json:"has_enough"`
	Balance   *float64 `json:"balance,omitempty"`
}

func (h *PaymentsHandler) checkBalance(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	hasEnough, balance, err := h.paymentsService.CheckBalance(r.Context(),
		params.Get("username"), params.Get("amount"))
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, checkBalanceResponse{Status: 2})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, checkBalanceResponse{
		Status:    1,
		HasEnough: hasEnough,
		Balance:   &balance,
	})
}

func (h *PaymentsHandler) transfer(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	err := h.paymentsService.Transfer(r.Context(),
		params.Get("from_username"), params.Get("to_username"), params.Get("amount"))
	if err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}
