package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/canchaya/canchas-api/internal/logging"
)

// ConsumerConfig names the broker objects and the audit file.
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	LogPath  string
}

// StartCatalogConsumer binds Queue to every key on Exchange and appends one
// line per event to LogPath.  It reconnects with exponential backoff and
// returns only when ctx is done.  Malformed messages are rejected without
// requeue so they cannot loop.
func StartCatalogConsumer(ctx context.Context, cfg ConsumerConfig, logger *slog.Logger) error {
	sink := &AuditLog{Path: cfg.LogPath}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			logging.Warn(logger, "catalog-consumer: dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, sink, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn(logger, "catalog-consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, sink *AuditLog, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn(logger, "catalog-consumer: set QoS failed", "error", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	for d := range msgs {
		if err := sink.Handle(d.Body); err != nil {
			logging.Error(logger, "catalog-consumer: handle message failed", err, "routing_key", d.RoutingKey)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// AuditLog appends formatted catalog events to a file.
type AuditLog struct {
	Path string
}

// Handle decodes one message body and appends it.
func (a *AuditLog) Handle(body []byte) error {
	var ev CatalogEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev CatalogEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | actor_user_id=%d | club_id=%d | venue_id=%d | venue=%q",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ActorUserID, ev.ClubID, ev.VenueID, ev.VenueName)
	if ev.TariffID != 0 {
		fmt.Fprintf(&b, " | tariff_id=%d", ev.TariffID)
	}
	if ev.DayOfWeek != nil {
		fmt.Fprintf(&b, " | day=%d | window=%s-%s | price=%s", *ev.DayOfWeek, ev.StartTime, ev.EndTime, ev.Price)
	}
	if ev.RemovedTariffs > 0 {
		fmt.Fprintf(&b, " | removed_tariffs=%d", ev.RemovedTariffs)
	}
	b.WriteByte('\n')
	return b.String()
}
