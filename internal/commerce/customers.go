package commerce

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

// SignInInput carries credentials plus the anonymous cart to merge into the customer's cart.
type SignInInput struct {
	Email           string
	Password        string
	AnonymousCartID string
}

// CustomerDraft is the registration payload.
type CustomerDraft struct {
	Email                  string
	Password               string
	FirstName              string
	LastName               string
	DateOfBirth            string
	Addresses              []domain.CustomerAddress
	DefaultShippingAddress *int
	DefaultBillingAddress  *int
	AnonymousCartID        string
}

// SignInResult is the customer plus the active cart, when the platform returned one.
type SignInResult struct {
	Customer domain.Customer
	Cart     *domain.CartSnapshot
}

type ctLoginRequest struct {
	Email                   string `json:"email"`
	Password                string `json:"password"`
	AnonymousCartID         string `json:"anonymousCartId,omitempty"`
	AnonymousCartSignInMode string `json:"anonymousCartSignInMode,omitempty"`
}

type ctCustomerDraft struct {
	Email                  string      `json:"email"`
	Password               string      `json:"password"`
	FirstName              string      `json:"firstName,omitempty"`
	LastName               string      `json:"lastName,omitempty"`
	DateOfBirth            string      `json:"dateOfBirth,omitempty"`
	Addresses              []ctAddress `json:"addresses,omitempty"`
	DefaultShippingAddress *int        `json:"defaultShippingAddress,omitempty"`
	DefaultBillingAddress  *int        `json:"defaultBillingAddress,omitempty"`
	AnonymousCartID        string      `json:"anonymousCartId,omitempty"`
}

func (c *Client) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	body := ctLoginRequest{Email: in.Email, Password: in.Password}
	if in.AnonymousCartID != "" {
		body.AnonymousCartID = in.AnonymousCartID
		body.AnonymousCartSignInMode = "MergeWithExistingCustomerCart"
	}
	var out ctSignInResult
	if err := c.do(ctx, "customers.login", http.MethodPost, "/login", nil, body, &out); err != nil {
		return nil, err
	}
	return toSignInResult(out), nil
}

func (c *Client) SignUp(ctx context.Context, in CustomerDraft) (*SignInResult, error) {
	addresses := make([]ctAddress, 0, len(in.Addresses))
	for _, a := range in.Addresses {
		addresses = append(addresses, ctAddress{
			FirstName:  a.FirstName,
			LastName:   a.LastName,
			Country:    a.Country,
			StreetName: a.StreetName,
			PostalCode: a.PostalCode,
			City:       a.City,
		})
	}
	body := ctCustomerDraft{
		Email:                  in.Email,
		Password:               in.Password,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		DateOfBirth:            in.DateOfBirth,
		Addresses:              addresses,
		DefaultShippingAddress: in.DefaultShippingAddress,
		DefaultBillingAddress:  in.DefaultBillingAddress,
		AnonymousCartID:        in.AnonymousCartID,
	}
	var out ctSignInResult
	if err := c.do(ctx, "customers.create", http.MethodPost, "/customers", nil, body, &out); err != nil {
		return nil, err
	}
	return toSignInResult(out), nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var out ctCustomer
	if err := c.do(ctx, "customers.get", http.MethodGet, "/customers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	cust := toCustomer(out)
	return &cust, nil
}

// GetProject fetches project settings; it doubles as an upstream reachability probe.
func (c *Client) GetProject(ctx context.Context) (*domain.Project, error) {
	var out ctProject
	if err := c.do(ctx, "project.get", http.MethodGet, "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &domain.Project{Key: out.Key, Name: out.Name, Currencies: out.Currencies}, nil
}

func toSignInResult(in ctSignInResult) *SignInResult {
	res := &SignInResult{Customer: toCustomer(in.Customer)}
	if in.Cart != nil {
		snap := toSnapshot(*in.Cart)
		res.Cart = &snap
	}
	return res
}
