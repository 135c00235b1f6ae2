package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/services/api"
)

type Handler struct {
	log *zap.Logger
	uc  *Usecase
}

func NewHandler(log *zap.Logger, uc *Usecase) *Handler {
	return &Handler{log: log, uc: uc}
}

func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/auth/signup", h.signUp)
	g.POST("/auth/signin", h.signIn)
}

type signUpRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	LineManagerID *int64 `json:"lineManagerId"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "invalid signup payload")
		return
	}

	h.log.Info("auth.signup", zap.String("email", req.Email))

	u, tok, err := h.uc.SignUp(c.Request.Context(), SignUpInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		LineManagerID: req.LineManagerID,
	})
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusCreated, gin.H{"token": tok, "user": u})
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "invalid signin payload")
		return
	}

	h.log.Info("auth.signin", zap.String("email", req.Email))

	u, tok, err := h.uc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusOK, gin.H{"token": tok, "user": u})
}

func (h *Handler) mapErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		api.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrEmailExists):
		api.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrNoSuchManager):
		api.Error(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("auth handler", zap.Error(err))
		api.Error(c, http.StatusInternalServerError, "internal error")
	}
}
