package negotiation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mrhb33/Artivty/internal/middleware"
	"github.com/Mrhb33/Artivty/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts all request and offer endpoints. The group is
// expected to carry the auth middleware already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/requests", middleware.RequireRole("customer"), h.CreateRequest)
	rg.GET("/requests/my-requests", h.ListMyRequests)
	rg.GET("/requests/open", middleware.RequireRole("artist"), h.ListOpenRequests)
	rg.GET("/requests/:id", h.GetRequest)
	rg.PUT("/requests/:id/select/:offer_id", h.SelectOffer)
	rg.PUT("/requests/:id/complete", h.CompleteRequest)
	rg.PUT("/requests/:id/cancel", h.CancelRequest)
	rg.POST("/requests/:id/offers", h.SubmitOffer)
	rg.GET("/requests/:id/offers", h.ListOffersForRequest)
	rg.GET("/offers/my", middleware.RequireRole("artist"), h.ListMyOffers)
	rg.DELETE("/offers/:id", h.WithdrawOffer)
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.CreateRequest(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create request")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"request": r})
}

func (h *Handler) ListMyRequests(c *gin.Context) {
	rows, err := h.service.ListMyRequests(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err, "Failed to list requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": rows})
}

func (h *Handler) ListOpenRequests(c *gin.Context) {
	rows, err := h.service.ListOpenRequests(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err, "Failed to list open requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": rows})
}

func (h *Handler) GetRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.GetRequest(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), requestID)
	if err != nil {
		h.writeError(c, err, "Failed to get request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": details})
}

func (h *Handler) SelectOffer(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}
	offerID, ok := pathID(c, "offer_id")
	if !ok {
		return
	}

	result, err := h.service.SelectOffer(c.Request.Context(), c.GetInt64("user_id"), requestID, offerID)
	if err != nil {
		h.writeError(c, err, "Failed to select offer")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"request":        result.Request,
		"accepted_offer": result.AcceptedOffer,
	})
}

func (h *Handler) CompleteRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.CompleteRequest(c.Request.Context(), c.GetInt64("user_id"), requestID)
	if err != nil {
		h.writeError(c, err, "Failed to complete request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": r})
}

func (h *Handler) CancelRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.CancelRequest(c.Request.Context(), c.GetInt64("user_id"), requestID)
	if err != nil {
		h.writeError(c, err, "Failed to cancel request")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"request": r})
}

func (h *Handler) SubmitOffer(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	o, err := h.service.SubmitOffer(c.Request.Context(), c.GetInt64("user_id"), requestID, req)
	if err != nil {
		h.writeError(c, err, "Failed to submit offer")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"offer": o})
}

func (h *Handler) ListOffersForRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	offers, err := h.service.ListOffersForRequest(c.Request.Context(), c.GetInt64("user_id"), requestID)
	if err != nil {
		h.writeError(c, err, "Failed to list offers")
		return
	}
	response.Success(c, http.StatusOK, OfferList{Offers: offers})
}

func (h *Handler) ListMyOffers(c *gin.Context) {
	offers, err := h.service.ListMyOffers(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err, "Failed to list offers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offers": offers})
}

func (h *Handler) WithdrawOffer(c *gin.Context) {
	offerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.WithdrawOffer(c.Request.Context(), c.GetInt64("user_id"), offerID); err != nil {
		h.writeError(c, err, "Failed to withdraw offer")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource")
	case errors.Is(err, ErrRequestNotOpen):
		response.Error(c, http.StatusConflict, "CONFLICT", "Request is not open")
	case errors.Is(err, ErrDuplicateOffer):
		response.Error(c, http.StatusConflict, "CONFLICT", "You already have an offer on this request")
	case errors.Is(err, ErrArtistNotEligible):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Artist profile is not eligible")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name)
		return 0, false
	}
	return id, true
}
