package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts order_number and customer_number from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if n := GetOrderNumber(ctx); n != "" {
		e.Str("order_number", n)
	}

	if n := GetCustomerNumber(ctx); n != "" {
		e.Str("customer_number", n)
	}
}
