// Package notifier relays committed reward notifications to a webhook sink.
//
// Delivery is at-least-once: a batch is marked delivered only after the sink answers 2xx,
// so a crash between the two steps re-sends the batch on the next poll.
package notifier

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/commission-ledger/common/errs"
	"github.com/gaze-network/commission-ledger/modules/ledger/internal/entity"
	"github.com/gaze-network/commission-ledger/pkg/httpclient"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/metrics"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultBatchSize    = 100
	shutdownTimeout     = 30 * time.Second
)

// Store is the outbox the notifier drains.
type Store interface {
	GetUndeliveredNotifications(ctx context.Context, limit int32) ([]*entity.Notification, error)
	MarkNotificationsDelivered(ctx context.Context, ids []uuid.UUID, deliveredAt time.Time) error
}

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	Timeout      time.Duration     // per webhook request
	Headers      map[string]string // e.g. an authorization header expected by the sink
	Now          func() time.Time
}

type Notifier struct {
	store  Store
	client *httpclient.Client
	config Config

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
	running  atomic.Bool
}

func New(store Store, webhookURL string, config Config) (*Notifier, error) {
	if webhookURL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "notifier webhook url is required")
	}
	client, err := httpclient.New(webhookURL, httpclient.Config{
		Timeout: config.Timeout,
		Headers: config.Headers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create webhook client")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Notifier{
		store:  store,
		client: client,
		config: config,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func (n *Notifier) Shutdown() error {
	return n.ShutdownWithContext(context.Background())
}

func (n *Notifier) ShutdownWithContext(ctx context.Context) (err error) {
	n.quitOnce.Do(func() {
		close(n.quit)
		if !n.running.Load() {
			return
		}
		select {
		case <-n.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "notifier shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "notifier shutdown context canceled")
		}
	})
	return
}

// Run polls the outbox until Shutdown is called or ctx is done. Delivery failures are logged and retried on the next tick.
func (n *Notifier) Run(ctx context.Context) error {
	n.running.Store(true)
	defer close(n.done)
	ctx = logger.WithContext(ctx, slogx.String("package", "notifier"))

	ticker := time.NewTicker(n.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-n.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping notifier")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			delivered, err := n.Flush(ctx)
			if err != nil {
				logger.WarnContext(ctx, "Failed to deliver reward notifications",
					slogx.String("event", "notifier_delivery_failed"),
					slogx.Error(err),
				)
				continue
			}
			if delivered > 0 {
				logger.DebugContext(ctx, "Delivered reward notifications", slogx.Int("count", delivered))
			}
		}
	}
}

// Flush delivers batches until the outbox is empty and returns the number of notifications delivered.
func (n *Notifier) Flush(ctx context.Context) (int, error) {
	var total int
	for {
		select {
		case <-n.quit:
			return total, nil
		default:
		}

		batch, err := n.store.GetUndeliveredNotifications(ctx, n.config.BatchSize)
		if err != nil {
			return total, errors.Wrap(err, "failed to get undelivered notifications")
		}
		if len(batch) == 0 {
			return total, nil
		}
		if err := n.deliver(ctx, batch); err != nil {
			metrics.NotificationsDelivered.WithLabelValues(metrics.ResultError).Add(float64(len(batch)))
			return total, errors.WithStack(err)
		}
		ids := lo.Map(batch, func(item *entity.Notification, _ int) uuid.UUID { return item.ID })
		if err := n.store.MarkNotificationsDelivered(ctx, ids, n.config.Now()); err != nil {
			return total, errors.Wrap(err, "failed to mark notifications delivered")
		}
		metrics.NotificationsDelivered.WithLabelValues(metrics.ResultSuccess).Add(float64(len(batch)))
		total += len(batch)

		if len(batch) < int(n.config.BatchSize) {
			return total, nil
		}
	}
}

type rewardNotification struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       string          `json:"accountId"`
	SourceAccountID string          `json:"sourceAccountId"`
	RechargeEventID string          `json:"rechargeEventId"`
	Level           string          `json:"level"`
	Amount          decimal.Decimal `json:"amount"`
	Message         string          `json:"message"`
	CreatedAt       int64           `json:"createdAt"`
}

type deliverPayload struct {
	Notifications []rewardNotification `json:"notifications"`
}

func (n *Notifier) deliver(ctx context.Context, batch []*entity.Notification) error {
	payload := deliverPayload{
		Notifications: lo.Map(batch, func(item *entity.Notification, _ int) rewardNotification {
			return rewardNotification{
				ID:              item.ID,
				AccountID:       item.AccountID,
				SourceAccountID: item.SourceAccountID,
				RechargeEventID: item.RechargeEventID,
				Level:           entity.LevelLabel(item.Level),
				Amount:          item.Amount,
				Message:         item.Message,
				CreatedAt:       item.CreatedAt.Unix(),
			}
		}),
	}

	resp, err := n.client.PostJSON(ctx, "", payload, map[string]string{
		"X-Ledger-Batch-Size": strconv.Itoa(len(batch)),
	})
	if err != nil {
		return errors.Wrap(errors.Mark(err, errs.Transient), "can't send request")
	}
	if !resp.OK() {
		return errors.Wrapf(errs.Transient, "webhook responded with status %d: %s", resp.StatusCode, string(resp.Body))
	}
	return nil
}
