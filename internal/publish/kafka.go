// Package publish sends scored surf reports to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/metrics"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaWriter produces one message per report, keyed by report ID.
type KafkaWriter struct {
	writer messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *KafkaWriter {
	return &KafkaWriter{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}}
}

// LoadBatch publishes reports in a single WriteMessages call.
func (w *KafkaWriter) LoadBatch(ctx context.Context, reports []models.SurfReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeReport(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		metrics.ReportsPublished.WithLabelValues("error").Add(float64(len(msgs)))
		return fmt.Errorf("write messages: %w", err)
	}
	metrics.ReportsPublished.WithLabelValues("ok").Add(float64(len(msgs)))
	return nil
}

func (w *KafkaWriter) Close() error {
	return w.writer.Close()
}

func serializeReport(r models.SurfReport) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize surf report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.ReportID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "spot_id", Value: []byte(r.SpotID)},
			{Key: "computed_at", Value: []byte(r.ComputedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
