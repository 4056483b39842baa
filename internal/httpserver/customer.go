package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
)

type customerService interface {
	Login(ctx context.Context, in customersvc.LoginInput, anonymousCartID string) (*commerce.SignInResult, error)
	Signup(ctx context.Context, in customersvc.SignupInput, anonymousCartID string) (*commerce.SignInResult, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
}

type signInResponse struct {
	Customer domain.Customer `json:"customer"`
	Cart     cartResponse    `json:"cart"`
}

func (h *handlers) login(c *gin.Context) {
	var req customersvc.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	sess := currentSession(c)
	res, err := h.deps.Customers.Login(c.Request.Context(), req, anonymousCartID(sess))
	if err != nil {
		writeError(c, err)
		return
	}
	h.finishSignIn(c, sess, res, http.StatusOK)
}

func (h *handlers) register(c *gin.Context) {
	var req customersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	sess := currentSession(c)
	res, err := h.deps.Customers.Signup(c.Request.Context(), req, anonymousCartID(sess))
	if err != nil {
		writeError(c, err)
		return
	}
	h.finishSignIn(c, sess, res, http.StatusCreated)
}

func (h *handlers) finishSignIn(c *gin.Context, sess *cartsvc.Session, res *commerce.SignInResult, status int) {
	rebound, err := h.deps.Sessions.SignIn(c.Request.Context(), sess.ID, res.Customer.ID, res.Cart)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, signInResponse{Customer: res.Customer, Cart: newCartResponse(rebound.Cart)})
}

func (h *handlers) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.deps.Sessions.Close(c.Request.Context(), sess.ID); err != nil {
		writeError(c, err)
		return
	}
	setSessionCookie(c, "", 0)
	c.Header(sessionHeader, "")
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	cust := currentSession(c).Customer()
	if cust == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_signed_in"})
		return
	}
	full, err := h.deps.Customers.Get(c.Request.Context(), cust.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": full})
}

// anonymousCartID is the cart to merge on sign-in. Signed-in sessions have none.
func anonymousCartID(sess *cartsvc.Session) string {
	b := sess.Binding()
	if b.CustomerID != "" {
		return ""
	}
	return b.CartID
}
