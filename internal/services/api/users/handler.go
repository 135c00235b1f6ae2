package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
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
	g.GET("/users/me", h.me)
	g.PATCH("/users/lineManager", h.setLineManager)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.uc.Me(c.Request.Context(), api.UserID(c))
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusOK, gin.H{"user": u})
}

type setManagerRequest struct {
	LineManagerID *int64 `json:"lineManagerId"`
}

func (h *Handler) setLineManager(c *gin.Context) {
	var req setManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.uc.SetLineManager(c.Request.Context(), api.UserID(c), req.LineManagerID); err != nil {
		h.mapErr(c, err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "line manager updated")
}

func (h *Handler) mapErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoSuchManager), errors.Is(err, ErrManagerCycle), errors.Is(err, ErrSelfManager):
		api.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pg.ErrNotFound):
		api.Error(c, http.StatusNotFound, "user not found")
	default:
		h.log.Error("users handler", zap.Error(err))
		api.Error(c, http.StatusInternalServerError, "internal error")
	}
}
