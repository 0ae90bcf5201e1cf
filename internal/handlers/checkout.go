package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/samber/lo"
)

type addressInput struct {
	AddressLine1 string `json:"address_line_1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line_2" binding:"max=200"`
	ZipCode      string `json:"zip_code" binding:"required,max=20"`
	City         string `json:"city" binding:"required,max=100"`
}

type addressChoiceRequest struct {
	SelectedID *string       `json:"selected_id" binding:"omitempty,uuid"`
	New        *addressInput `json:"new"`
}

type setAddressesRequest struct {
	Shipping addressChoiceRequest `json:"shipping" binding:"required"`
	Billing  addressChoiceRequest `json:"billing" binding:"required"`
}

func (r addressChoiceRequest) toChoice() service.AddressChoice {
	var choice service.AddressChoice

	if r.SelectedID != nil {
		choice.SelectedID = lo.ToPtr(uuid.MustParse(*r.SelectedID))
	}

	if r.New != nil {
		choice.New = &domain.Address{
			AddressLine1: r.New.AddressLine1,
			AddressLine2: r.New.AddressLine2,
			ZipCode:      r.New.ZipCode,
			City:         r.New.City,
		}
	}

	return choice
}

// ListAddresses returns the owner's saved addresses of ?type=shipping|billing.
func (h *Handler) ListAddresses(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	addressType, err := domain.ToAddressType(c.Query("type"))
	if err != nil {
		h.respondError(c, domain.NewValidationError("type", err.Error()))
		return
	}

	addresses, err := h.checkout.SavedAddresses(c.Request.Context(), owner, addressType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": lo.Map(addresses, toAddressResponse)})
}

func (h *Handler) SetAddresses(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req setAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	order, err := h.checkout.SetAddresses(c.Request.Context(), owner, req.Shipping.toChoice(), req.Billing.toChoice())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, h.currency))
}
