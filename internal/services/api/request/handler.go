package request

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
	"github.com/fernweh-labs/tripdesk/internal/domain/request"
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
	g.POST("/requests", h.create)
	g.GET("/requests", h.listMine)
	g.GET("/requests/pending", h.listPending)
	g.PATCH("/requests/:id/approve", h.decide(request.StatusApproved))
	g.PATCH("/requests/:id/reject", h.decide(request.StatusRejected))
}

// tripResponse is the wire shape of a request record. The trip type
// travels as "type", and when an accommodation was referenced the
// resolved record is embedded rather than just its id.
type tripResponse struct {
	ID              int64                        `json:"id"`
	RequesterID     int64                        `json:"requesterId"`
	Type            request.TripType             `json:"type"`
	OriginCity      string                       `json:"originCity"`
	DestinationCity string                       `json:"destinationCity"`
	DepartureDate   time.Time                    `json:"departureDate"`
	Reason          string                       `json:"reason"`
	AccommodationID *string                      `json:"accommodationId,omitempty"`
	Accommodation   *accommodation.Accommodation `json:"accommodation,omitempty"`
	Status          request.Status               `json:"status"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

func toTripResponse(req *request.Request, acc *accommodation.Accommodation) tripResponse {
	return tripResponse{
		ID:              req.ID,
		RequesterID:     req.RequesterID,
		Type:            req.TripType,
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		DepartureDate:   req.DepartureDate,
		Reason:          req.Reason,
		AccommodationID: req.AccommodationID,
		Accommodation:   acc,
		Status:          req.Status,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}

func toTripResponses(items []*request.Request) []tripResponse {
	out := make([]tripResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toTripResponse(it, nil))
	}
	return out
}

type createRequest struct {
	TripType        string  `json:"tripType" binding:"required"`
	OriginCity      string  `json:"originCity" binding:"required"`
	DestinationCity string  `json:"destinationCity" binding:"required"`
	DepartureDate   string  `json:"departureDate" binding:"required"`
	Reason          string  `json:"reason"`
	AccommodationID *string `json:"accommodationId"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	dep, err := time.Parse(time.RFC3339, req.DepartureDate)
	if err != nil {
		if dep, err = time.Parse("2006-01-02", req.DepartureDate); err != nil {
			api.Error(c, http.StatusBadRequest, "invalid departure date")
			return
		}
	}

	rec, err := h.uc.Create(c.Request.Context(), api.UserID(c), CreateInput{
		TripType:        req.TripType,
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		DepartureDate:   dep,
		Reason:          req.Reason,
		AccommodationID: req.AccommodationID,
	})
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusCreated, toTripResponse(rec.Request, rec.Accommodation))
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.uc.ListMine(c.Request.Context(), api.UserID(c))
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusOK, toTripResponses(items))
}

func (h *Handler) listPending(c *gin.Context) {
	items, err := h.uc.ListPending(c.Request.Context(), api.UserID(c))
	if err != nil {
		h.mapErr(c, err)
		return
	}
	api.Success(c, http.StatusOK, toTripResponses(items))
}

func (h *Handler) decide(status request.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			api.Error(c, http.StatusBadRequest, "invalid request id")
			return
		}
		rec, err := h.uc.Decide(c.Request.Context(), api.UserID(c), id, status)
		if err != nil {
			h.mapErr(c, err)
			return
		}
		api.Success(c, http.StatusOK, toTripResponse(rec.Request, rec.Accommodation))
	}
}

func (h *Handler) mapErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidTrip), errors.Is(err, ErrNoSuchAccommodation):
		api.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		api.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		api.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyDecided):
		api.Error(c, http.StatusConflict, err.Error())
	default:
		h.log.Error("request handler", zap.Error(err))
		api.Error(c, http.StatusInternalServerError, "internal error")
	}
}
