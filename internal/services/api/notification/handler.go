package notification

import (
	"net/http"
	"strconv"

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
	g.GET("/notification", h.list)
	g.PATCH("/notification/optOut", h.optOut)
	g.PATCH("/notification/optIn", h.optIn)
	g.PATCH("/notification/markAsRead/:id", h.markRead)
	g.PATCH("/notification/markAllAsRead", h.markAllRead)
	g.DELETE("/notification/clear", h.clear)
}

func (h *Handler) optOut(c *gin.Context) {
	if err := h.uc.OptOut(c.Request.Context(), api.UserID(c)); err != nil {
		h.fail(c, "opt out", err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "opted out of email notifications")
}

func (h *Handler) optIn(c *gin.Context) {
	if err := h.uc.OptIn(c.Request.Context(), api.UserID(c)); err != nil {
		h.fail(c, "opt in", err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "opted in to email notifications")
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.uc.List(c.Request.Context(), api.UserID(c))
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	api.Success(c, http.StatusOK, items)
}

func (h *Handler) markRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.Error(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.uc.MarkRead(c.Request.Context(), id, api.UserID(c)); err != nil {
		h.fail(c, "mark read", err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "notification marked as read")
}

func (h *Handler) markAllRead(c *gin.Context) {
	if err := h.uc.MarkAllRead(c.Request.Context(), api.UserID(c)); err != nil {
		h.fail(c, "mark all read", err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "all notifications marked as read")
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.uc.Clear(c.Request.Context(), api.UserID(c)); err != nil {
		h.fail(c, "clear", err)
		return
	}
	api.SuccessMessage(c, http.StatusOK, "notifications cleared")
}

// fail collapses every storage failure to a 500. The caller can retry;
// nothing here is actionable for them.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error("notification "+op, zap.Error(err), zap.Int64("user_id", api.UserID(c)))
	api.Error(c, http.StatusInternalServerError, "internal error")
}
