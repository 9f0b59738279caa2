package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	contracts "click-analyser/contracts/events"
	"click-analyser/internal/config"
	"click-analyser/internal/env"
	"click-analyser/internal/processor"
	"click-analyser/internal/store"

	"github.com/joho/godotenv"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	CommitInterval = 3 * time.Second
	JobBufferSize  = 1000
)

func init() {
	if os.Getenv("RUNNING_IN_DOCKER") == "" {
		err := godotenv.Load("../../.env")
		if err != nil {
			log.Println("No .env file found (this is fine in Docker)")
		}
	}
}

func main() {
	cfg, err := config.SetupStreamConfig()
	if err != nil {
		log.Panic(err)
	}
	defer cfg.Kafka.Close()
	defer cfg.Redis.Close()
	defer cfg.Pg.Close()

	ctx := context.Background()

	commitChan := make(chan *kgo.Record, JobBufferSize)
	producer := processor.NewProducer(cfg.Kafka, env.GetEnvString("KAFKA_TOPIC_VERDICTS", "verdicts"))
	verdicts := store.NewVerdictStore(cfg.Pg)

	registry := processor.NewRegistry(
		processor.NewClickHandler(cfg.Redis, verdicts, producer, cfg.Policy),
	)

	go commitLoop(ctx, cfg.Kafka, commitChan)

	log.Println("Click-analyser stream started (sequential mode, Kafka keyed by user_id)")

	for {
		fetches := cfg.Kafka.PollFetches(ctx)
		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			for _, record := range p.Records {
				envelope, err := contracts.ParseEnvelope(record.Value)
				if err != nil {
					log.Printf("error parsing envelope: %v", err)
					continue
				}

				if err := registry.Handle(envelope); err != nil {
					if errors.Is(err, processor.ErrUnknownDomain) {
						log.Printf("skipping unsupported domain %q", envelope.Domain)
						commitChan <- record
						continue
					}
					log.Printf("Processing error: %v", err)
					continue
				}

				commitChan <- record
			}
		})
	}
}

func commitLoop(ctx context.Context, client *kgo.Client, commitChan chan *kgo.Record) {
	var toCommit []*kgo.Record
	ticker := time.NewTicker(CommitInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case record := <-commitChan:
			if record != nil {
				toCommit = append(toCommit, record)
			}
		case <-ticker.C:
			if len(toCommit) > 0 {
				if err := client.CommitRecords(ctx, toCommit...); err != nil {
					log.Printf("Commit error: %v", err)
				} else {
					log.Printf("Committed %d records", len(toCommit))
				}
				toCommit = nil
			}
		}
	}
}
