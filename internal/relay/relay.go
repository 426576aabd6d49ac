package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sweeply/marketplace-be/shared/postgresql"
	"github.com/sweeply/marketplace-be/shared/rabbitmq"
)

// Config holds relay configuration
type Config struct {
	Logger        *slog.Logger
	DBClient      *postgresql.Client
	RabbitClient  *rabbitmq.Client
	Concurrency   int
	PrefetchCount int
}

// Relay consumes lifecycle events from the message queue and records
// them into the audit table.
type Relay struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	store         *EventStore
	processor     *Processor
	relayID       string
	concurrency   int
	prefetchCount int
	wg            sync.WaitGroup
	stopChan      chan struct{}
	recordsChan   chan *record
}

// record pairs a raw message body with its delivery tag for ack/nack.
type record struct {
	body        []byte
	deliveryTag uint64
}

// New creates a new Relay instance
func New(cfg *Config) *Relay {
	store := NewEventStore(cfg.DBClient, cfg.Logger)
	return &Relay{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		store:         store,
		processor:     NewProcessor(store, cfg.Logger),
		relayID:       "relay-" + uuid.New().String()[:8],
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		stopChan:      make(chan struct{}),
		recordsChan:   make(chan *record),
	}
}

// Start begins consuming events and blocks until the context is canceled.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("Starting relay",
		slog.String("relay_id", r.relayID),
		slog.Int("concurrency", r.concurrency),
		slog.Int("prefetch_count", r.prefetchCount),
	)

	deliveries, err := r.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	r.spawnWorkers(ctx)
	r.dispatch(ctx, deliveries)

	return nil
}

// Stop gracefully stops the relay
func (r *Relay) Stop() {
	r.logger.Info("Stopping relay...")
	close(r.stopChan)
	r.wg.Wait()
	r.logger.Info("Relay stopped")
}

// setupConsumer sets QoS and starts consuming from the event queue.
func (r *Relay) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := r.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	if err := channel.Qos(r.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := r.rabbitClient.Consume(r.relayID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	r.logger.Info("Event consumer started",
		slog.String("consumer_tag", r.relayID),
		slog.Int("prefetch_count", r.prefetchCount),
	)

	return deliveries, nil
}

// dispatch feeds deliveries to the worker pool until the context ends or
// the delivery channel closes.
func (r *Relay) dispatch(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				r.logger.Warn("Delivery channel closed")
				return
			}

			rec := &record{body: delivery.Body, deliveryTag: delivery.DeliveryTag}

			select {
			case r.recordsChan <- rec:
			case <-ctx.Done():
				// Hand the message back so another consumer can pick it up.
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					r.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}

// spawnWorkers spawns N worker goroutines based on concurrency configuration
func (r *Relay) spawnWorkers(ctx context.Context) {
	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.workerLoop(ctx, i)
	}

	r.logger.Info("Relay worker pool spawned",
		slog.Int("worker_count", r.concurrency),
	)
}

// workerLoop is the main processing loop for each worker goroutine
func (r *Relay) workerLoop(ctx context.Context, workerNum int) {
	defer r.wg.Done()

	workerName := fmt.Sprintf("%s-%d", r.relayID, workerNum)

	for {
		select {
		case <-r.stopChan:
			r.logger.Info("Relay worker stopping",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			r.logger.Info("Relay worker stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case rec, ok := <-r.recordsChan:
			if !ok {
				return
			}

			err := r.processor.Process(ctx, rec.body)

			channel := r.rabbitClient.GetChannel()
			if channel == nil {
				r.logger.Error("Failed to get channel for ACK/NACK",
					slog.String("worker_name", workerName),
				)
				continue
			}

			if err != nil {
				requeue := shouldRequeue(err)
				r.logger.Error("Event processing failed",
					slog.String("worker_name", workerName),
					slog.String("error", err.Error()),
					slog.Bool("requeue", requeue),
				)
				if nackErr := channel.Nack(rec.deliveryTag, false, requeue); nackErr != nil {
					r.logger.Error("Failed to NACK message",
						slog.String("worker_name", workerName),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := channel.Ack(rec.deliveryTag, false); ackErr != nil {
				r.logger.Error("Failed to ACK message",
					slog.String("worker_name", workerName),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}
