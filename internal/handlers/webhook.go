package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/webhook"
)

const signatureHeader = "Stripe-Signature"

// StripeWebhook verifies the signature over the exact raw body before anything is parsed.
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.logger)

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, webhook.MaxBodyBytes))
	if err != nil {
		log.Warn("read webhook body", slog.String(logger.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}

	event, err := h.verifier.Verify(payload, c.GetHeader(signatureHeader))
	if err != nil {
		h.respondError(c, err)
		return
	}

	log = log.With(slog.String("event_id", event.ID), slog.String("event_type", string(event.Type)))

	if err := h.rec.HandleEvent(c.Request.Context(), event); err != nil {
		h.respondError(c, err)
		return
	}

	log.Info("webhook processed")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
