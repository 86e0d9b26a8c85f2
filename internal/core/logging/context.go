package logging

import "context"

type contextKey string

const (
	orderNumberKey    contextKey = "order_number"
	customerNumberKey contextKey = "customer_number"
)

// WithOrderNumber adds a sales order number to the context.
func WithOrderNumber(ctx context.Context, orderNumber string) context.Context {
	return context.WithValue(ctx, orderNumberKey, orderNumber)
}

// WithCustomerNumber adds a customer number to the context.
func WithCustomerNumber(ctx context.Context, customerNumber string) context.Context {
	return context.WithValue(ctx, customerNumberKey, customerNumber)
}

// GetOrderNumber retrieves the order number from the context.
// Returns empty string if not present.
func GetOrderNumber(ctx context.Context) string {
	if n, ok := ctx.Value(orderNumberKey).(string); ok {
		return n
	}
	return ""
}

// GetCustomerNumber retrieves the customer number from the context.
// Returns empty string if not present.
func GetCustomerNumber(ctx context.Context) string {
	if n, ok := ctx.Value(customerNumberKey).(string); ok {
		return n
	}
	return ""
}
