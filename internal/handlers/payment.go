package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/domain"
)

const maxConfirmationBytes = int64(65536)

type confirmRequest struct {
	MethodID string `json:"method_id" binding:"required"`
}

func (h *Handler) BeginIntent(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	intent, err := h.payments.BeginIntent(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toIntentResponse(intent))
}

func (h *Handler) ListSavedMethods(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	methods, err := h.payments.ListSavedMethods(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if methods == nil {
		methods = []domain.SavedPaymentMethod{}
	}

	c.JSON(http.StatusOK, gin.H{"methods": methods})
}

func (h *Handler) ConfirmWithSavedMethod(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	intent, err := h.payments.ConfirmWithSavedMethod(c.Request.Context(), owner, req.MethodID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toIntentResponse(intent))
}

// ConfirmPayPal accepts the buyer-side capture result. The raw body is stored as the attempt's response.
func (h *Handler) ConfirmPayPal(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxConfirmationBytes))
	if err != nil {
		h.respondError(c, domain.NewValidationError("body", "too large or unreadable"))
		return
	}

	if err := h.rec.ConfirmSynchronous(c.Request.Context(), owner, body); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "Success"})
}
