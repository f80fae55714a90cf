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

// AvailabilityHandler exposes the availability service's endpoints. Token
// checks are delegated to identity over the internal verification call; this
// service never decodes a token itself.
type AvailabilityHandler struct {
	availabilityService *service.AvailabilityService
	identity            *client.IdentityClient
	reset               func(context.Context) error
	logger              *zap.Logger
}

func NewAvailabilityHandler(
	availabilityService *service.AvailabilityService,
	identity *client.IdentityClient,
	reset func(context.Context) error,
	logger *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		identity:            identity,
		reset:               reset,
		logger:              logger,
	}
}

func (h *AvailabilityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clear", h.clear)
	r.Post("/listing", h.createListing)
	r.Get("/search", h.search)
}

func (h *AvailabilityHandler) RegisterInternalRoutes(r chi.Router) {
	r.Post("/get_listing", h.getListing)
	r.Post("/delete_listing", h.deleteListing)
}

func (h *AvailabilityHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.logger.Error("store reset failed", zap.Error(err))
	}
	common.RespondWithStatus(w, 1)
}

func (h *AvailabilityHandler) createListing(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithStatus(w, 2)
		return
	}
	info, err := h.identity.VerifyToken(r.Context(), token)
	if err != nil || !info.IsDriver {
		common.RespondWithStatus(w, 2)
		return
	}

	params := common.ParseParams(r)
	err = h.availabilityService.CreateListing(r.Context(), info.Username,
		params.Get("day"), params.Get("price"), params.Get("listingid"))
	if err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}

type searchResponse struct {
	Status int                    `json:"status"`
	Data   []service.SearchResult `json:"data"`
}

func (h *AvailabilityHandler) search(w http.ResponseWriter, r *http.Request) {
	fail := searchResponse{Status: 2, Data: []service.SearchResult{}}

	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithJSON(w, http.StatusOK, fail)
		return
	}
	info, err := h.identity.VerifyToken(r.Context(), token)
	if err != nil || info.IsDriver {
		common.RespondWithJSON(w, http.StatusOK, fail)
		return
	}

	results, err := h.availabilityService.Search(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, fail)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, searchResponse{Status: 1, Data: results})
}

type listingResponse struct {
	Status int     `json:"status"`
	Day    *string `json:"day"`
	Price  *string `json:"price"`
	Driver *string `json:"driver"`
}

func (h *AvailabilityHandler) getListing(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	listing, err := h.availabilityService.GetListing(r.Context(), params.Get("listingid"))
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, listingResponse{Status: 2})
		return
	}

	price := common.FormatMoney(listing.Price)
	common.RespondWithJSON(w, http.StatusOK, listingResponse{
		Status: 1,
		Day:    &listing.Day,
		Price:  &price,
		Driver: &listing.DriverUsername,
	})
}

func (h *AvailabilityHandler) deleteListing(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	if err := h.availabilityService.DeleteListing(r.Context(), params.Get("listingid")); err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}
