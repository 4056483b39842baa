package domain

// Membership is the derived add/remove button state for a product.
type Membership int

const (
	NotInCart Membership = iota
	InCart
)

// MembershipOf converts an index lookup into the tagged state.
func MembershipOf(member bool) Membership {
	if member {
		return InCart
	}
	return NotInCart
}

func (m Membership) String() string {
	if m == InCart {
		return "in_cart"
	}
	return "not_in_cart"
}

// MarshalText encodes the state as its string form in JSON payloads.
func (m Membership) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ButtonLabel is the call to action a product card shows for this state.
func (m Membership) ButtonLabel() string {
	if m == InCart {
		return "Remove from cart"
	}
	return "Add to cart"
}
