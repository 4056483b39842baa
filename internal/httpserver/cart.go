package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type addLineItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID int    `json:"variantId" binding:"omitempty,min=1"`
}

type cartResponse struct {
	Cart          domain.CartSnapshot   `json:"cart"`
	State         cartsvc.MutationState `json:"state"`
	TotalQuantity int                   `json:"totalQuantity"`
	Total         string                `json:"total"`
	Error         string                `json:"error,omitempty"`
	Message       string                `json:"message,omitempty"`
}

func newCartResponse(svc *cartsvc.Service) cartResponse {
	snap := svc.Snapshot()
	if snap.LineItems == nil {
		snap.LineItems = []domain.LineItem{}
	}
	return cartResponse{
		Cart:          snap,
		State:         svc.State(),
		TotalQuantity: snap.TotalQuantity(),
		Total:         domain.FormatCents(snap.TotalCents),
	}
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(currentSession(c).Cart))
}

func (h *handlers) getCartState(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Cart.State())
}

func (h *handlers) addLineItem(c *gin.Context) {
	var req addLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	if req.VariantID == 0 {
		req.VariantID = 1
	}
	sess := currentSession(c)
	err := sess.Cart.AddProductToCart(mutationContext(c), req.ProductID, req.VariantID, sess.Customer())
	h.writeCartResult(c, sess, err)
}

func (h *handlers) removeLineItem(c *gin.Context) {
	sess := currentSession(c)
	err := sess.Cart.RemoveProductFromCart(mutationContext(c), c.Param("productId"))
	h.writeCartResult(c, sess, err)
}

// mutationContext detaches a cart mutation from the client connection. The
// platform may apply an update after the shopper disconnects, so its answer
// must still reach the store. The engine's mutation timeout bounds the call.
func mutationContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// writeCartResult answers a mutation. Busy is a bare 409 the view ignores;
// a remove of an absent product is a no-op that returns the unchanged cart.
func (h *handlers) writeCartResult(c *gin.Context, sess *cartsvc.Session, err error) {
	switch {
	case err == nil, errors.Is(err, domain.ErrNotInCart):
		c.JSON(http.StatusOK, newCartResponse(sess.Cart))
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "busy"})
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(c, err)
	default:
		h.logger.Warn("cart mutation failed", zap.String("sessionId", sess.ID), zap.Error(err))
		status, code := errorStatus(err)
		resp := newCartResponse(sess.Cart)
		resp.Error = code
		resp.Message = resp.State.LastError
		c.JSON(status, resp)
	}
}
