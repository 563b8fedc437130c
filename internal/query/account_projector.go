package query

import (
	"context"
	"fmt"

	"github.com/fernbank/ledger-service/internal/events"
)

// ViewInvalidator evicts keys from the read-model cache.
type ViewInvalidator interface {
	Delete(ctx context.Context, key string)
}

// AccountProjector keeps the cached account view in step with committed
// writes: it consumes the account event stream and evicts the affected
// view so the next read goes to the store.
type AccountProjector struct {
	views ViewInvalidator
}

func NewAccountProjector(views ViewInvalidator) *AccountProjector {
	return &AccountProjector{views: views}
}

// HandleEvent is the subscriber handler for the account event stream.
func (p *AccountProjector) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.BalanceUpdated:
		var payload events.BalanceUpdatedEvent
		if err := events.DecodeData(event, &payload); err != nil {
			return err
		}
		p.views.Delete(ctx, accountKey(payload.AccountID))
	case events.AccountStatusChanged:
		var payload events.AccountStatusChangedEvent
		if err := events.DecodeData(event, &payload); err != nil {
			return err
		}
		p.views.Delete(ctx, accountKey(payload.AccountID))
	}
	return nil
}

func accountKey(id int64) string {
	return fmt.Sprintf("account:%d", id)
}
