package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/healthpredict/healthpredict-backend/internal/observability"
)

// PasscodeDelivery is one outbound verification-code message.
type PasscodeDelivery struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// DeliveryDispatcher hands a persisted passcode to the notifier. The issuing
// flow only asserts that the code is persisted; whether Dispatch also waits
// for delivery is the dispatcher's policy.
type DeliveryDispatcher interface {
	Dispatch(ctx context.Context, d PasscodeDelivery) error
}

// SyncDispatcher blocks on the notifier and surfaces its failure as a
// delivery error. The already-persisted passcode is never rolled back; it
// dies by its expiry window.
type SyncDispatcher struct {
	notifier Notifier
}

func NewSyncDispatcher(notifier Notifier) *SyncDispatcher {
	return &SyncDispatcher{notifier: notifier}
}

func (s *SyncDispatcher) Dispatch(ctx context.Context, d PasscodeDelivery) error {
	if err := s.notifier.Send(ctx, d.Email, d.Code); err != nil {
		observability.RecordPasscodeDelivery(ctx, "failure")
		return wrapFlowErr(KindDelivery, "failed to send verification code", err)
	}
	observability.RecordPasscodeDelivery(ctx, "success")
	return nil
}

// OutboundDispatcher takes delivery off the request path: Dispatch enqueues
// and returns, and a single worker retries the notifier with exponential
// backoff. A message that exhausts its attempts is logged and dropped; the
// account holder retries by logging in again, which issues a fresh code.
type OutboundDispatcher struct {
	notifier    Notifier
	logger      *slog.Logger
	queue       chan PasscodeDelivery
	maxAttempts int
	backoff     time.Duration
	done        chan struct{}
	closeOnce   sync.Once
}

func NewOutboundDispatcher(notifier Notifier, logger *slog.Logger, queueSize, maxAttempts int, backoff time.Duration) *OutboundDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	d := &OutboundDispatcher{
		notifier:    notifier,
		logger:      logger,
		queue:       make(chan PasscodeDelivery, queueSize),
		maxAttempts: maxAttempts,
		backoff:     backoff,
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

func (o *OutboundDispatcher) Dispatch(ctx context.Context, d PasscodeDelivery) error {
	select {
	case o.queue <- d:
		return nil
	default:
		observability.RecordPasscodeDelivery(ctx, "queue_full")
		return flowErr(KindDelivery, "verification code delivery queue is full")
	}
}

// Close stops accepting work and waits for queued deliveries to drain.
func (o *OutboundDispatcher) Close() {
	o.closeOnce.Do(func() { close(o.queue) })
	<-o.done
}

func (o *OutboundDispatcher) run() {
	defer close(o.done)
	for d := range o.queue {
		o.deliver(d)
	}
}

func (o *OutboundDispatcher) deliver(d PasscodeDelivery) {
	ctx := context.Background()
	b := retry.WithMaxRetries(uint64(o.maxAttempts-1), retry.NewExponential(o.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := o.notifier.Send(ctx, d.Email, d.Code); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		observability.RecordPasscodeDelivery(ctx, "failure")
		o.logger.Error("passcode delivery failed, code will expire unused",
			"email", d.Email,
			"expires_at", d.ExpiresAt,
			"attempts", o.maxAttempts,
			"error", err,
		)
		return
	}
	observability.RecordPasscodeDelivery(ctx, "success")
}
