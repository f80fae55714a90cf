package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/api/middleware"
	"github.com/rideshare-market/backend/internal/app/service"
	"github.com/rideshare-market/backend/internal/common"
)

// IdentityHandler exposes the identity service's endpoints. Public statuses
// are endpoint-local: create_user distinguishes username (2) and email (3)
// collisions from generic invalid input (4); login and rate collapse every
// failure into 2.
type IdentityHandler struct {
	identityService *service.IdentityService
	reset           func(context.Context) error
	logger          *zap.Logger
}

func NewIdentityHandler(identityService *service.IdentityService, reset func(context.Context) error, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{identityService: identityService, reset: reset, logger: logger}
}

func (h *IdentityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clear", h.clear)
	r.Post("/create_user", h.createUser)
	r.Post("/login", h.login)
	r.Post("/rate", h.rate)
}

func (h *IdentityHandler) RegisterInternalRoutes(r chi.Router) {
	r.Post("/get_user_info", h.getUserInfo)
	r.Post("/get_rating", h.getRating)
	r.Get("/internal/verify_jwt", h.verifyJWT)
}

func (h *IdentityHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.logger.Error("store reset failed", zap.Error(err))
	}
	common.RespondWithStatus(w, 1)
}

type createUserResponse struct {
	Status   int    `json:"status"`
	PassHash string `json:"pass_hash"`
}

func (h *IdentityHandler) createUser(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	req := service.CreateUserRequest{
		FirstName:    params.Get("first_name"),
		LastName:     params.Get("last_name"),
		Username:     params.Get("username"),
		EmailAddress: params.Get("email_address"),
		Password:     params.Get("password"),
		Salt:         params.Get("salt"),
		Driver:       params.Get("driver"),
		Deposit:      params.Get("deposit"),
	}

	passHash, err := h.identityService.CreateUser(r.Context(), req)
	if err != nil {
		status := 4
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			status = 2
		case errors.Is(err, common.ErrEmailTaken):
			status = 3
		}
		common.RespondWithJSON(w, http.StatusOK, createUserResponse{Status: status, PassHash: common.Null})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, createUserResponse{Status: 1, PassHash: passHash})
}

type loginResponse struct {
	Status int    `json:"status"`
	JWT    string `json:"jwt"`
}

func (h *IdentityHandler) login(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	token, err := h.identityService.Login(r.Context(), params.Get("username"), params.Get("password"))
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, loginResponse{Status: 2, JWT: common.Null})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, loginResponse{Status: 1, JWT: token})
}

func (h *IdentityHandler) rate(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondWithStatus(w, 2)
		return
	}

	params := common.ParseParams(r)
	ratedUsername := params.Get("username")
	ratingStr := params.Get("rating")
	if ratedUsername == "" || ratingStr == "" {
		common.RespondWithStatus(w, 2)
		return
	}
	score, err := strconv.Atoi(ratingStr)
	if err != nil {
		common.RespondWithStatus(w, 2)
		return
	}

	if err := h.identityService.Rate(r.Context(), token, ratedUsername, score); err != nil {
		common.RespondWithStatus(w, 2)
		return
	}
	common.RespondWithStatus(w, 1)
}

type userInfoResponse struct {
	Status   int    `json:"status"`
	IsDriver bool   `json:"is_driver"`
	Rating   string `json:"rating"`
}

func (h *IdentityHandler) getUserInfo(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	username := params.Get("username")
	if username == "" {
		common.RespondWithJSON(w, http.StatusOK, userInfoResponse{Status: 2, Rating: "0.00"})
		return
	}

	user, rating, err := h.identityService.UserInfo(r.Context(), username)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, userInfoResponse{Status: 2, Rating: "0.00"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, userInfoResponse{Status: 1, IsDriver: user.IsDriver, Rating: rating})
}

type ratingResponse struct {
	Status int    `json:"status"`
	Rating string `json:"rating"`
}

func (h *IdentityHandler) getRating(w http.ResponseWriter, r *http.Request) {
	params := common.ParseParams(r)
	username := params.Get("username")
	if username == "" {
		common.RespondWithJSON(w, http.StatusOK, ratingResponse{Status: 2, Rating: "0.00"})
		return
	}

	_, rating, err := h.identityService.UserInfo(r.Context(), username)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, ratingResponse{Status: 2, Rating: "0.00"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ratingResponse{Status: 1, Rating: rating})
}

type verifyJWTResponse struct {
	Valid    int    `json:"valid"`
	Username string `json:"username,omitempty"`
	IsDriver bool   `json:"is_driver"`
	UserID   string `json:"user_id,omitempty"`
}

func (h *IdentityHandler) verifyJWT(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		common.RespondWithJSON(w, http.StatusOK, verifyJWTResponse{Valid: 0})
		return
	}

	user, err := h.identityService.VerifyToken(r.Context(), token)
	if err != nil {
		common.RespondWithJSON(w, http.StatusOK, verifyJWTResponse{Valid: 0})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, verifyJWTResponse{
		Valid:    1,
		Username: user.Username,
		IsDriver: user.IsDriver,
		UserID:   user.ID,
	})
}
