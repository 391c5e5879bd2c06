package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wishbot/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultQueueKey      = "wishbot:deliveries"
	defaultDeadLetterKey = "wishbot:deliveries:deadletter"
	deadLetterCap        = 1000
)

var ErrQueueFull = errors.New("delivery queue is full")

// Delivery is one outgoing chat message waiting to be sent.
type Delivery struct {
	TelegramID int64     `json:"telegram_id"`
	Text       string    `json:"text"`
	PhotoRef   string    `json:"photo_ref,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeliveryWorker decouples callers from the chat gateway. Deliveries go to a
// Redis list when available and to an in-memory queue otherwise; failed
// deliveries are kept in a capped dead-letter list.
type DeliveryWorker struct {
	gateway       domain.Gateway
	redis         *redis.Client
	queue         chan Delivery
	redisQueueKey string
	deadLetterKey string
	popTimeout    time.Duration
	logger        *zerolog.Logger
}

func NewDeliveryWorker(gateway domain.Gateway, redisClient *redis.Client, bufferSize int, logger *zerolog.Logger) *DeliveryWorker {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "delivery_worker").Logger()

	return &DeliveryWorker{
		gateway:       gateway,
		redis:         redisClient,
		queue:         make(chan Delivery, bufferSize),
		redisQueueKey: defaultQueueKey,
		deadLetterKey: defaultDeadLetterKey,
		popTimeout:    time.Second,
		logger:        &l,
	}
}

// Deliver queues the message and returns without waiting for it to be sent.
func (w *DeliveryWorker) Deliver(ctx context.Context, telegramID int64, text, photoRef string) error {
	return w.Enqueue(ctx, Delivery{
		TelegramID: telegramID,
		Text:       text,
		PhotoRef:   photoRef,
		CreatedAt:  time.Now(),
	})
}

func (w *DeliveryWorker) Enqueue(ctx context.Context, d Delivery) error {
	if d.TelegramID == 0 {
		return errors.New("telegram id is required")
	}

	if w.redis != nil {
		err := w.pushRedis(ctx, w.redisQueueKey, d)
		if err == nil {
			return nil
		}
		w.logger.Warn().Err(err).Msg("Redis push failed, using memory queue")
	}

	select {
	case w.queue <- d:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start consumes deliveries until ctx is done.
func (w *DeliveryWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Delivery worker started")
	defer w.logger.Info().Msg("Delivery worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if d, ok := w.tryLocalQueue(); ok {
			w.process(ctx, &d)
			continue
		}

		if w.redis == nil {
			w.waitLocal(ctx, 0)
			continue
		}

		d, ok, err := w.tryRedis(ctx)
		switch {
		case ok:
			w.process(ctx, &d)
		case err != nil:
			w.waitLocal(ctx, w.popTimeout)
		}
	}
}

func (w *DeliveryWorker) tryLocalQueue() (Delivery, bool) {
	select {
	case d := <-w.queue:
		return d, true
	default:
		return Delivery{}, false
	}
}

// waitLocal blocks on the memory queue for at most timeout; 0 waits until
// ctx is done.
func (w *DeliveryWorker) waitLocal(ctx context.Context, timeout time.Duration) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
	case d := <-w.queue:
		w.process(ctx, &d)
	case <-expired:
	}
}

func (w *DeliveryWorker) tryRedis(ctx context.Context) (Delivery, bool, error) {
	res, err := w.redis.BRPop(ctx, w.popTimeout, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return Delivery{}, false, nil
		}
		w.logger.Error().Err(err).Msg("Redis BRPOP failed")
		return Delivery{}, false, err
	}
	if len(res) != 2 {
		return Delivery{}, false, nil
	}

	var d Delivery
	if err := json.Unmarshal([]byte(res[1]), &d); err != nil {
		w.logger.Error().Err(err).Msg("Failed to decode delivery")
		return Delivery{}, false, nil
	}
	return d, true, nil
}

func (w *DeliveryWorker) process(ctx context.Context, d *Delivery) {
	err := w.gateway.Deliver(ctx, d.TelegramID, d.Text, d.PhotoRef)
	if err == nil {
		return
	}

	d.LastError = err.Error()
	w.logger.Warn().Err(err).Int64("telegram_id", d.TelegramID).Msg("Delivery failed")
	w.pushDeadLetter(ctx, d)
}

func (w *DeliveryWorker) pushRedis(ctx context.Context, key string, d Delivery) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode delivery: %w", err)
	}
	return w.redis.LPush(ctx, key, data).Err()
}

func (w *DeliveryWorker) pushDeadLetter(ctx context.Context, d *Delivery) {
	if w.redis == nil {
		return
	}
	if err := w.pushRedis(ctx, w.deadLetterKey, *d); err != nil {
		w.logger.Error().Err(err).Int64("telegram_id", d.TelegramID).Msg("Dead-letter push failed")
		return
	}
	if err := w.redis.LTrim(ctx, w.deadLetterKey, 0, deadLetterCap-1).Err(); err != nil {
		w.logger.Warn().Err(err).Msg("Dead-letter trim failed")
	}
}
