package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/api/middleware"
	"github.com/rideshare-market/backend/internal/app/service"
	"github.com/rideshare-market/backend/internal/common"
)

// ReservationsHandler exposes the reservations service's endpoints. The
// reserve operation reports 1 success, 2 unauthorized, 3 failed; every
// internal cause folds into those three.
type ReservationsHandler struct {
	reservationService *service.ReservationService
	reset              func(context.Context) error
	logger             *zap.Logger
}

func NewReservationsHandler(
	reservationService *service.ReservationService,
	reset func(context.Context) error,
	logger *zap.Logger,
) *ReservationsHandler {
	return &ReservationsHandler{reservationService: reservationService, reset: reset, logger: logger}
}

func (h *ReservationsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clear", h.clear)
	r.Post("/reserve", h.reserve)
	r.Get("/view", h.view)
}

func (h *ReservationsHandler) RegisterInternalRoutes(r chi.Router) {
	r.Post("/check_reservation", h.checkReservation)
}

func (h *ReservationsHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.logger.Error("store reset failed", zap.Error(err))
	}
	common.RespondWithStatus(w, 1)
}

func (h *ReservationsHandler) reserve(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithStatus(w, 2)
		return
	}

	params := common.ParseParams(r)
	switch h.reservationService.Reserve(r.Context(), token, params.Get("listingid")) {
	case service.ReserveSuccess:
		common.RespondWithStatus(w, 1)
	case service.ReserveUnauthorized:
		common.RespondWithStatus(w, 2)
	default:
		common.RespondWithStatus(w, 3)
	}
}

type viewResponse struct {
	Status int         `json:"status"`
	Data   interface{} `json:"data"`
}

func (h *ReservationsHandler) view(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithJSON(w, http.StatusOK, viewResponse{Status: 2, Data: common.Null})
		return
	}

	data, err := h.reservationService.View(r.Context(), token)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, viewResponse{Status: 2, Data: common.Null})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, viewResponse{Status: 1, Data: data})
}

func (h *ReservationsHandler) checkReservation(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	linked, err := h.reservationService.CheckPair(r.Context(), params.Get("rater"), params.Get("rated"))
	if err != nil || !linked {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}
