package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"wallet-credit-score/internal/domain"
)

// Envelope types published to Kafka.
const (
	TypeWalletScore = "wallet_score"
	TypeScoreRun    = "score_run"
)

// Envelope wraps every Kafka message payload.
type Envelope struct {
	Type string          `json:"type"`
	TS   int64           `json:"ts"` // Unix ms at publish
	Data json.RawMessage `json:"data"`
}

// ScoreMessage is the payload of a wallet_score envelope.
type ScoreMessage struct {
	RunID  string  `json:"run_id"`
	Wallet string  `json:"wallet"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
	Band   string  `json:"band"`
}

// RunMessage is the payload of the score_run envelope sent after all scores.
type RunMessage struct {
	RunID            string    `json:"run_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	DataVersion      string    `json:"data_version"`
	WeightsVersion   string    `json:"weights_version"`
	TransactionCount int       `json:"transaction_count"`
	WalletCount      int       `json:"wallet_count"`
}

// KafkaSink publishes one message per wallet score, keyed by wallet,
// followed by a run summary keyed by run id.
type KafkaSink struct {
	topic string
	p     sarama.SyncProducer
	now   func() time.Time
}

// NewKafkaSink connects a synchronous producer to brokers.
func NewKafkaSink(brokers []string, topic string, cfg *sarama.Config) (*KafkaSink, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.Producer.RequiredAcks = sarama.WaitForAll
		cfg.Producer.Retry.Max = 5
		cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	}
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(p, topic), nil
}

// NewKafkaSinkWithProducer wraps an existing producer.
func NewKafkaSinkWithProducer(p sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{topic: topic, p: p, now: time.Now}
}

// Name returns the sink name.
func (s *KafkaSink) Name() string { return "kafka" }

// Close closes the producer.
func (s *KafkaSink) Close() error {
	if s.p != nil {
		return s.p.Close()
	}
	return nil
}

// Publish sends every score in rank order, then the run summary.
// SyncProducer takes no context; ctx is checked before sending.
func (s *KafkaSink) Publish(ctx context.Context, out *domain.RunOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ts := s.now().UnixMilli()
	msgs := make([]*sarama.ProducerMessage, 0, len(out.Scores)+1)

	for _, sc := range out.Scores {
		msg, err := s.message(TypeWalletScore, sc.Wallet, ts, ScoreMessage{
			RunID:  out.Run.RunID,
			Wallet: sc.Wallet,
			Score:  sc.Score,
			Rank:   sc.Rank,
			Band:   sc.Band,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	summary, err := s.message(TypeScoreRun, out.Run.RunID, ts, RunMessage{
		RunID:            out.Run.RunID,
		GeneratedAt:      out.Run.GeneratedAt,
		DataVersion:      out.Run.DataVersion,
		WeightsVersion:   out.Run.WeightsVersion,
		TransactionCount: out.Run.TransactionCount,
		WalletCount:      out.Run.WalletCount,
	})
	if err != nil {
		return err
	}
	msgs = append(msgs, summary)

	if err := s.p.SendMessages(msgs); err != nil {
		return fmt.Errorf("kafka publish failed: %w", err)
	}
	return nil
}

func (s *KafkaSink) message(typ, key string, ts int64, v any) (*sarama.ProducerMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	b, err := json.Marshal(Envelope{Type: typ, TS: ts, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(b),
	}, nil
}

// Compile-time interface checks.
var (
	_ Sink = (*FileSink)(nil)
	_ Sink = (*StoreSink)(nil)
	_ Sink = (*KafkaSink)(nil)
)
