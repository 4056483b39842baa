package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
)

// errorStatus maps error kinds to an HTTP status and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, customersvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusBadGateway, "upstream_timeout"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "rejected"
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	body := gin.H{"error": code}
	var verr *customersvc.ValidationError
	switch {
	case errors.As(err, &verr):
		body["fields"] = verr.Fields
	case status == http.StatusBadGateway || status == http.StatusUnprocessableEntity || (status == http.StatusConflict && code != "busy"):
		body["message"] = cartsvc.UserMessage(err)
	case status == http.StatusUnauthorized:
		body["message"] = "Email or password is incorrect."
	}
	c.AbortWithStatusJSON(status, body)
}
