package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/samber/lo"
)

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Colour    string `json:"colour" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=1000"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.cart.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": lo.Map(products, toProductResponse)})
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.cart.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product, 0))
}

func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	order, err := h.cart.ResolveOpenOrder(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, h.currency))
}

func (h *Handler) AddItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	order, err := h.cart.AddOrMerge(c.Request.Context(), owner, service.AddItemRequest{
		ProductID: uuid.MustParse(req.ProductID),
		Colour:    req.Colour,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, h.currency))
}

func (h *Handler) IncreaseItem(c *gin.Context) {
	h.mutateItem(c, h.cart.Increase)
}

func (h *Handler) DecreaseItem(c *gin.Context) {
	h.mutateItem(c, h.cart.Decrease)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	h.mutateItem(c, h.cart.Remove)
}

func (h *Handler) mutateItem(c *gin.Context, fn func(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error)) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), owner, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, h.currency))
}

func (h *Handler) GetOrder(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	orderID, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.cart.GetOrder(c.Request.Context(), owner, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order, h.currency))
}

func (h *Handler) owner(c *gin.Context) (string, bool) {
	owner, err := ownerID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return owner, true
}

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, domain.NewValidationError("id", "is not a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}
