package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/domain"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type gateway interface {
	SignIn(ctx context.Context, in commerce.SignInInput) (*commerce.SignInResult, error)
	SignUp(ctx context.Context, in commerce.CustomerDraft) (*commerce.SignInResult, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

// Service handles customer signup/login flows against the commerce platform.
type Service struct {
	gateway  gateway
	validate *validator.Validate
	logger   *zap.Logger
}

func New(gw gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gw, validate: newValidator(), logger: logger}
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,min=5,max=50,nowhitespace,dotteddomain,email"`
	Password string `json:"password" validate:"required,min=8,max=50,notrimspace,hasupper,haslower,hasdigit,hasspecial"`
}

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	FirstName  string `json:"firstName" validate:"max=100"`
	LastName   string `json:"lastName" validate:"max=100"`
	Country    string `json:"country" validate:"required,len=2,alpha"`
	StreetName string `json:"streetName" validate:"required,max=200"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	City       string `json:"city" validate:"required,max=100"`
}

// SignupInput captures fields expected by the registration form.
type SignupInput struct {
	Email                  string         `json:"email" validate:"required,min=5,max=50,nowhitespace,dotteddomain,email"`
	Password               string         `json:"password" validate:"required,min=8,max=50,notrimspace,hasupper,haslower,hasdigit,hasspecial"`
	FirstName              string         `json:"firstName" validate:"required,max=100"`
	LastName               string         `json:"lastName" validate:"required,max=100"`
	DateOfBirth            string         `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Addresses              []AddressInput `json:"addresses" validate:"dive"`
	DefaultShippingAddress *int           `json:"defaultShippingAddress" validate:"omitempty,min=0"`
	DefaultBillingAddress  *int           `json:"defaultBillingAddress" validate:"omitempty,min=0"`
}

// Login signs the customer in, merging anonymousCartID into the customer's cart when set.
func (s *Service) Login(ctx context.Context, in LoginInput, anonymousCartID string) (*commerce.SignInResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	res, err := s.gateway.SignIn(ctx, commerce.SignInInput{
		Email:           in.Email,
		Password:        in.Password,
		AnonymousCartID: anonymousCartID,
	})
	if err != nil {
		return nil, s.mapSignInError(err)
	}
	s.logger.Info("customer signed in", zap.String("customerId", res.Customer.ID))
	return res, nil
}

// Signup registers a customer and signs them in. The anonymous cart becomes the customer's cart.
func (s *Service) Signup(ctx context.Context, in SignupInput, anonymousCartID string) (*commerce.SignInResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := s.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	if err := checkAddressIndex("defaultShippingAddress", in.DefaultShippingAddress, len(in.Addresses)); err != nil {
		return nil, err
	}
	if err := checkAddressIndex("defaultBillingAddress", in.DefaultBillingAddress, len(in.Addresses)); err != nil {
		return nil, err
	}

	addresses := make([]domain.CustomerAddress, 0, len(in.Addresses))
	for _, a := range in.Addresses {
		addresses = append(addresses, domain.CustomerAddress{
			FirstName:  a.FirstName,
			LastName:   a.LastName,
			Country:    strings.ToUpper(a.Country),
			StreetName: a.StreetName,
			PostalCode: a.PostalCode,
			City:       a.City,
		})
	}
	created, err := s.gateway.SignUp(ctx, commerce.CustomerDraft{
		Email:                  in.Email,
		Password:               in.Password,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		DateOfBirth:            in.DateOfBirth,
		Addresses:              addresses,
		DefaultShippingAddress: in.DefaultShippingAddress,
		DefaultBillingAddress:  in.DefaultBillingAddress,
		AnonymousCartID:        anonymousCartID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer registered", zap.String("customerId", created.Customer.ID))

	res, err := s.gateway.SignIn(ctx, commerce.SignInInput{Email: in.Email, Password: in.Password})
	if err != nil {
		return nil, s.mapSignInError(err)
	}
	if res.Cart == nil {
		res.Cart = created.Cart
	}
	return res, nil
}

// Get returns the customer by platform id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	return s.gateway.GetCustomer(ctx, id)
}

func (s *Service) mapSignInError(err error) error {
	var ce *commerce.Error
	if errors.As(err, &ce) && (ce.Code == "InvalidCredentials" || ce.Code == "InvalidCurrentPassword") {
		return ErrInvalidCredentials
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkAddressIndex(field string, idx *int, n int) error {
	if idx == nil || *idx < n {
		return nil
	}
	return &ValidationError{Fields: []FieldError{{Field: field, Message: "must reference one of the submitted addresses"}}}
}
