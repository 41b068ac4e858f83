package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/reports"
	"github.com/saferoute/saferoute/internal/zones"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	aggregateJob     *AggregateJob
	zones            *zones.Service
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	AggregateJob     *AggregateJob
	Zones            *zones.Service
	Logger           zerolog.Logger
}

// JobMessage represents an operational job message. Report events published
// by the API carry an "event" attribute instead and a report payload.
type JobMessage struct {
	JobType string `json:"job_type"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		aggregateJob:     cfg.AggregateJob,
		zones:            cfg.Zones,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Report events from the API carry an event attribute.
	if event := msg.Attributes["event"]; event != "" {
		if err := h.handleEvent(ctx, event, msg.Data); err != nil {
			logger.Error().Err(err).Str("event", event).Msg("event handling failed")
			msg.Nack()
			return
		}
		logger.Info().
			Str("event", event).
			Dur("duration", time.Since(startTime)).
			Msg("event handled")
		msg.Ack()
		return
	}

	// Everything else is an operational job message.
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch jobMsg.JobType {
	case "zone_refresh":
		err = h.handleZoneRefresh(ctx)
	case "report_sweep":
		h.aggregateJob.Run(ctx)
	default:
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleEvent(ctx context.Context, event string, data []byte) error {
	switch event {
	case reports.EventReportCreated:
		var rep reports.Report
		if err := json.Unmarshal(data, &rep); err != nil {
			return fmt.Errorf("parsing report event: %w", err)
		}
		if _, err := h.aggregateJob.CheckLocation(ctx, rep); err != nil {
			return fmt.Errorf("checking report cluster: %w", err)
		}
		return nil
	default:
		h.logger.Warn().Str("event", event).Msg("unknown event")
		return nil
	}
}

func (h *PubSubHandler) handleZoneRefresh(ctx context.Context) error {
	count, err := h.zones.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refreshing zone snapshot: %w", err)
	}

	h.logger.Info().Int("zones", count).Msg("zone snapshot refreshed")
	return nil
}
