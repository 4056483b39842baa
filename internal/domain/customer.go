package domain

// CustomerAddress stores address fields returned to clients.
type CustomerAddress struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
}

// Customer is a registered shopper as known to the commerce platform.
type Customer struct {
	ID                       string            `json:"id"`
	Version                  int               `json:"version,omitempty"`
	Email                    string            `json:"email"`
	FirstName                string            `json:"firstName,omitempty"`
	LastName                 string            `json:"lastName,omitempty"`
	DateOfBirth              string            `json:"dateOfBirth,omitempty"`
	Addresses                []CustomerAddress `json:"addresses,omitempty"`
	DefaultShippingAddressID string            `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string            `json:"defaultBillingAddressId,omitempty"`
}

// Project describes the upstream commerce project.
type Project struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Currencies []string `json:"currencies"`
}
