package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// Producer publishes scored leads and batch summaries to Kafka so
// downstream consumers (warehouse loaders, alerting) can follow scoring
// without polling the outbox. Implements the result sink port.
type Producer struct {
	leadsWriter   *kafka.Writer
	batchesWriter *kafka.Writer
	formatter     *core.OutputFormatter
	logger        *zap.Logger
}

// NewProducer creates a Kafka producer for the given brokers and topics
func NewProducer(brokers []string, leadsTopic, batchesTopic string, formatter *core.OutputFormatter, logger *zap.Logger) *Producer {
	return &Producer{
		leadsWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    leadsTopic,
			Balancer: &kafka.LeastBytes{},
		},
		batchesWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    batchesTopic,
			Balancer: &kafka.LeastBytes{},
		},
		formatter: formatter,
		logger:    logger,
	}
}

type leadEvent struct {
	BatchID      string            `json:"batch_id"`
	LeadID       string            `json:"lead_id"`
	Score        float64           `json:"score"`
	Category     string            `json:"category"`
	Explanation  string            `json:"explanation"`
	ModelVersion string            `json:"model_version"`
	Fields       core.ExportRecord `json:"fields"`
}

type batchEvent struct {
	BatchID      string         `json:"batch_id"`
	ModelVersion string         `json:"model_version"`
	Total        int            `json:"total"`
	Scored       int            `json:"scored"`
	Failed       int            `json:"failed"`
	ByCategory   map[string]int `json:"by_category"`
	AvgScore     float64        `json:"avg_score"`
	ElapsedMS    int64          `json:"elapsed_ms"`
	FinishedAt   time.Time      `json:"finished_at"`
}

// Write publishes one event per scored lead, keyed by lead id, then the
// batch summary. Failed leads carry no score and are represented only in
// the summary counts.
func (p *Producer) Write(ctx context.Context, result *core.BatchResult) error {
	messages := make([]kafka.Message, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Result == nil {
			continue
		}
		event := leadEvent{
			BatchID:      result.BatchID,
			LeadID:       item.Result.LeadID,
			Score:        item.Result.Score,
			Category:     string(item.Result.Category),
			Explanation:  p.formatter.Explain(item.Result),
			ModelVersion: item.Result.ModelVersion,
			Fields:       p.formatter.Format(item.Lead, item.Result),
		}
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode lead event: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(item.Result.LeadID),
			Value: data,
		})
	}

	if len(messages) > 0 {
		if err := p.leadsWriter.WriteMessages(ctx, messages...); err != nil {
			return fmt.Errorf("failed to publish lead events: %w", err)
		}
	}

	byCategory := make(map[string]int, len(result.Stats.ByCategory))
	for cat, n := range result.Stats.ByCategory {
		byCategory[string(cat)] = n
	}
	summary, err := json.Marshal(batchEvent{
		BatchID:      result.BatchID,
		ModelVersion: result.ModelVersion,
		Total:        result.Stats.Total,
		Scored:       result.Stats.Scored,
		Failed:       result.Stats.Failed,
		ByCategory:   byCategory,
		AvgScore:     result.Stats.AvgScore,
		ElapsedMS:    result.Elapsed.Milliseconds(),
		FinishedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode batch event: %w", err)
	}
	if err := p.batchesWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.BatchID),
		Value: summary,
	}); err != nil {
		return fmt.Errorf("failed to publish batch event: %w", err)
	}

	p.logger.Info("Published batch to event stream",
		zap.String("batch_id", result.BatchID),
		zap.Int("leads", len(messages)))
	return nil
}

// Close closes the Kafka writers
func (p *Producer) Close() error {
	if err := p.leadsWriter.Close(); err != nil {
		return err
	}
	return p.batchesWriter.Close()
}
