package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// VerdictEvent is the classification result published for downstream
// consumers.
type VerdictEvent struct {
	UserID            int     `json:"user_id"`
	SessionID         string  `json:"session_id,omitempty"`
	Policy            string  `json:"policy"`
	IsBot             bool    `json:"is_bot"`
	ContinuousMinutes float64 `json:"continuous_minutes"`
	RunStart          string  `json:"run_start,omitempty"`
	EventCount        int     `json:"event_count"`
	Timestamp         string  `json:"timestamp"`
	Source            string  `json:"source"`
}

type Producer struct {
	client *kgo.Client
	topic  string
}

func NewProducer(client *kgo.Client, topic string) *Producer {
	return &Producer{client: client, topic: topic}
}

func (p *Producer) PublishVerdict(ctx context.Context, verdict VerdictEvent) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("Kafka publish: marshal error: %v", err)
	}

	record := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(fmt.Sprintf("%d", verdict.UserID)),
		Value:     data,
		Timestamp: time.Now(),
	}

	err = p.client.ProduceSync(ctx, record).FirstErr()
	if err != nil {
		return fmt.Errorf("Kafka publish error: %v", err)
	}

	log.Printf("Published verdict for user %d (bot=%t) to topic %s", verdict.UserID, verdict.IsBot, p.topic)
	return nil
}
