package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	contracts "click-analyser/contracts/events"
	"click-analyser/internal/env"

	"github.com/joho/godotenv"
	"github.com/twmb/franz-go/pkg/kgo"
)

type server struct {
	kafka *kgo.Client
	topic string
}

func (s *server) ingestClicks(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Println("Error reading body:", err)
		http.Error(w, "Failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var payloads []contracts.ClickPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		// Single-click posts are accepted too.
		var single contracts.ClickPayload
		if err := json.Unmarshal(body, &single); err != nil {
			log.Println("Error parsing JSON:", err)
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		payloads = []contracts.ClickPayload{single}
	}

	accepted := 0
	for _, payload := range payloads {
		if err := payload.Validate(); err != nil {
			log.Printf("Rejecting click: %v", err)
			continue
		}

		envelope, err := contracts.WrapClick("http-ingest", payload)
		if err != nil {
			log.Printf("Could not wrap click: %v", err)
			continue
		}

		value, err := json.Marshal(envelope)
		if err != nil {
			log.Printf("Could not marshal envelope: %v", err)
			continue
		}

		record := &kgo.Record{
			Topic: s.topic,
			Key:   []byte(fmt.Sprintf("%d", payload.UserID)),
			Value: value,
		}
		if err := s.kafka.ProduceSync(r.Context(), record).FirstErr(); err != nil {
			log.Printf("Kafka produce error: %v", err)
			http.Error(w, "Failed to publish clicks", http.StatusBadGateway)
			return
		}
		accepted++
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, `{"message": "Clicks received successfully", "accepted": %d}`, accepted)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"message": "Healthchecked successfully"}`)
}

func main() {
	if os.Getenv("RUNNING_IN_DOCKER") == "" {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("No .env file found (this is fine in Docker)")
		}
	}

	broker := env.GetEnvString("KAFKA_URL", "localhost:9092")
	kafka, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		log.Fatalf("Unable to create producer client: %v", err)
	}
	defer kafka.Close()

	s := &server{
		kafka: kafka,
		topic: env.GetEnvString("KAFKA_TOPIC_CLICKS", "clicks"),
	}

	http.HandleFunc("/clicks", s.ingestClicks)
	http.HandleFunc("/healthcheck", healthcheck)

	addr := fmt.Sprintf(":%s", env.GetEnvString("INGEST_PORT", "8081"))
	log.Printf("Ingest server starting on %s...", addr)
	err = http.ListenAndServe(addr, nil)
	if errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("server closed\n")
	} else if err != nil {
		fmt.Printf("error starting server: %s\n", err)
		os.Exit(1)
	}
}
