package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logger"
)

// respondError maps a service error to its status code and body and logs it.
func (h *Handler) respondError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context(), h.logger).With(slog.String(logger.Error, err.Error()))

	var (
		authErr    *domain.AuthenticationRequiredError
		paymentErr *domain.PaymentError
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		log.Info("invalid request")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		log.Info("not found")
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFoundMessage(err)})
	case errors.As(err, &authErr):
		log.Warn("authentication required", slog.String("intent_id", authErr.IntentID))
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
			"warning":       authErr.Message,
			"code":          authErr.Code,
			"retriable":     authErr.Retriable(),
			"intent_id":     authErr.IntentID,
			"intent_status": authErr.IntentStatus,
			"client_secret": authErr.ClientSecret,
		})
	case errors.As(err, &paymentErr):
		log.Warn("payment failed", slog.String("code", paymentErr.Code))
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
			"warning": paymentErr.Message,
			"code":    paymentErr.Code,
		})
	case errors.Is(err, domain.ErrVerification):
		log.Warn("verification failed")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
	case errors.Is(err, domain.ErrUnhandledEvent):
		log.Info("unhandled event")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unhandled event type"})
	default:
		log.Error("internal error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// notFoundMessage keeps the entity name of the innermost not found error and drops the call chain.
func notFoundMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// bindError turns a gin binding failure into a ValidationError naming the offending field.
func bindError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return domain.NewValidationError(strings.ToLower(fe.Field()), fmt.Sprintf("failed on %q", fe.Tag()))
	}
	return domain.NewValidationError("body", err.Error())
}
