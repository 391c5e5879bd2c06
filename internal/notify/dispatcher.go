package notify

import (
	"context"
	"fmt"
	"time"

	"wishbot/internal/domain"
	"wishbot/internal/events"
	"wishbot/internal/metrics"
	"wishbot/internal/models"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

const dispatchTimeout = 30 * time.Second

// Dispatcher turns change events into notices for the other members of a
// category. A failed delivery never stops the remaining recipients.
type Dispatcher struct {
	store   domain.ReminderStore
	gateway domain.Gateway
	logger  *zerolog.Logger
}

func NewDispatcher(store domain.ReminderStore, gateway domain.Gateway, logger *zerolog.Logger) *Dispatcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "dispatcher").Logger()
	return &Dispatcher{store: store, gateway: gateway, logger: &l}
}

// Subscribe attaches the dispatcher to the bus.
func (d *Dispatcher) Subscribe(bus *events.EventBus) {
	bus.Subscribe(d.handleItemEvent, events.ItemEvents...)
	bus.Subscribe(d.handleAccessEvent, events.EventAccessGranted, events.EventAccessRevoked)
}

func (d *Dispatcher) handleItemEvent(event *events.Event) error {
	var p events.ItemChangedPayload
	if err := event.Decode(&p); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := d.NotifyItemChange(ctx, event.Type, p); err != nil {
		d.logger.Warn().Err(err).Str("event", event.Type).Int64("category_id", p.CategoryID).Msg("Change notice fan-out incomplete")
	}
	return nil
}

func (d *Dispatcher) handleAccessEvent(event *events.Event) error {
	var p events.AccessChangedPayload
	if err := event.Decode(&p); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := d.NotifyAccessChange(ctx, event.Type, p); err != nil {
		d.logger.Warn().Err(err).Str("event", event.Type).Int64("category_id", p.CategoryID).Msg("Access notice fan-out incomplete")
	}
	return nil
}

// NotifyItemChange sends the notice to the owner and grant holders of the
// category except the actor, honouring their notification flag. Only shared
// categories produce notices. Delete notices never carry a photo.
func (d *Dispatcher) NotifyItemChange(ctx context.Context, eventType string, p events.ItemChangedPayload) error {
	if !models.SharingType(p.SharingType).IsShared() {
		return nil
	}

	recipients, err := d.store.ChangeRecipients(ctx, p.CategoryID, p.ActorID)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}

	photo := p.PhotoRef
	if eventType == events.EventItemDeleted {
		photo = ""
	}

	var result *multierror.Error
	for _, u := range recipients {
		text := ItemChangeText(u.Language, eventType, p)
		if err := d.deliver(ctx, eventType, u, text, photo); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// NotifyAccessChange tells each affected user that access was granted or
// revoked.
func (d *Dispatcher) NotifyAccessChange(ctx context.Context, eventType string, p events.AccessChangedPayload) error {
	if len(p.UserIDs) == 0 {
		return nil
	}

	owner, err := d.store.GetUserByID(ctx, p.OwnerID)
	if err != nil {
		return fmt.Errorf("load owner: %w", err)
	}
	users, err := d.store.GetUsersByIDs(ctx, p.UserIDs)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	var result *multierror.Error
	for _, u := range users {
		text := AccessRevokedText(u.Language, p, owner)
		if eventType == events.EventAccessGranted {
			text = AccessGrantedText(u.Language, p, owner)
		}
		if err := d.deliver(ctx, eventType, u, text, ""); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, u *models.User, text, photo string) error {
	if err := d.gateway.Deliver(ctx, u.TelegramID, text, photo); err != nil {
		metrics.IncNotification(kind, "failed")
		return fmt.Errorf("user %d: %w", u.ID, err)
	}
	metrics.IncNotification(kind, "sent")
	return nil
}
