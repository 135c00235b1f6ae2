package accommodation

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
	g.POST("/accommodation", h.create)
	g.GET("/accommodation/:id", h.get)
}

type createRequest struct {
	Country           string   `json:"country" binding:"required"`
	City              string   `json:"city" binding:"required"`
	Address           string   `json:"address"`
	Name              string   `json:"name" binding:"required"`
	AccommodationType []string `json:"accommodationType"`
	RoomType          []string `json:"roomType"`
	NumRooms          int      `json:"numRooms"`
	Description       string   `json:"description"`
	Facilities        []string `json:"facilities"`
	Images            []string `json:"images"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "invalid accommodation payload")
		return
	}

	a, err := h.uc.Create(c.Request.Context(), CreateInput{
		Country:           req.Country,
		City:              req.City,
		Address:           req.Address,
		Name:              req.Name,
		AccommodationType: req.AccommodationType,
		RoomType:          req.RoomType,
		NumRooms:          req.NumRooms,
		Description:       req.Description,
		Facilities:        req.Facilities,
		Images:            req.Images,
	})
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusCreated, gin.H{"accommodation": a})
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusOK, gin.H{"accommodation": a})
}

func (h *Handler) mapErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCountry), errors.Is(err, ErrInvalidListing):
		api.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		api.Error(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error("accommodation handler", zap.Error(err))
		api.Error(c, http.StatusInternalServerError, "internal error")
	}
}
