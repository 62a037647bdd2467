package client

import "context"

// Checkout places an order from the cart. Local validation happens before
// any network call; on success the cart is cleared, on failure it is left
// intact so the user can retry.
func (c *Client) Checkout(ctx context.Context, session *Session, cart *Cart, addressID uint, paymentMethod string) (*Order, error) {
	user := session.User()
	if user == nil {
		return nil, &APIError{Message: "not authenticated"}
	}
	if addressID == 0 {
		return nil, &ValidationError{Messages: []string{"select a delivery address"}}
	}
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, &ValidationError{Messages: []string{"cart is empty"}}
	}

	input := CreateOrderInput{
		ClientID:      user.ID,
		AddressID:     addressID,
		PaymentMethod: paymentMethod,
		TotalAmount:   cart.Total(),
		Items:         make([]OrderLineInput, 0, len(lines)),
	}
	for _, line := range lines {
		input.Items = append(input.Items, OrderLineInput{
			ItemID:    line.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			Subtotal:  line.Price * float64(line.Quantity),
		})
	}

	order, err := c.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	return order, nil
}
