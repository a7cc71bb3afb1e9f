package alert

import (
	"context"

	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// Dispatcher sends composed messages through an injected channel. One
// attempt per call, no retry logic: a retried send could double-deliver,
// and alert delivery must only ever happen on explicit operator action.
type Dispatcher struct {
	channel Channel
}

// NewDispatcher creates a dispatcher bound to a delivery channel.
func NewDispatcher(channel Channel) *Dispatcher {
	return &Dispatcher{channel: channel}
}

// Dispatch validates the message and makes a single delivery attempt.
// Validation failures are returned as an error before the channel is ever
// invoked; transport failures come back inside the outcome. Concurrent
// dispatches for different students are independent - the dispatcher
// holds no mutable state.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) (DeliveryOutcome, error) {
	if msg == nil {
		return DeliveryOutcome{}, shared.NewDomainError("alert", "Dispatch", shared.ErrInvalidInput, "message is nil")
	}
	if err := msg.Validate(); err != nil {
		return DeliveryOutcome{}, err
	}
	if d.channel == nil {
		return DeliveryOutcome{}, shared.NewDomainError("alert", "Dispatch", shared.ErrServiceUnavailable, "no delivery channel configured")
	}

	return d.channel.Send(ctx, msg), nil
}
