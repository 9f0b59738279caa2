package processor

import (
	"context"
	"fmt"
	"log"
	"time"

	contracts "click-analyser/contracts/events"
	"click-analyser/internal/detector"
	"click-analyser/internal/event"
	"click-analyser/internal/store"

	"github.com/redis/go-redis/v9"
)

// ClickHandler advances the per-user continuous-run state one click at
// a time. Events must arrive in start-time order per user; the clicks
// topic is keyed by user id, so one partition delivers them that way.
type ClickHandler struct {
	rdb      *redis.Client
	verdicts *store.VerdictStore
	producer *Producer
	policy   detector.SingleRun
}

func NewClickHandler(rdb *redis.Client, verdicts *store.VerdictStore, producer *Producer, policy detector.SingleRun) *ClickHandler {
	return &ClickHandler{
		rdb:      rdb,
		verdicts: verdicts,
		producer: producer,
		policy:   policy,
	}
}

func (h *ClickHandler) Domain() string {
	return contracts.DomainClicks
}

func (h *ClickHandler) Handle(envelope contracts.Envelope) error {
	payload, err := envelope.ClickPayload()
	if err != nil {
		return fmt.Errorf("parse click payload: %w", err)
	}

	click := event.Click{Start: payload.ClickStart}
	if payload.ClickEnd != nil {
		click.End = *payload.ClickEnd
	}

	if err := store.AddClick(h.rdb, payload.UserID, click); err != nil {
		return fmt.Errorf("redis insert failed for click: %w", err)
	}

	tracked, err := store.LoadRunState(h.rdb, payload.UserID)
	if err != nil {
		return fmt.Errorf("load run state: %w", err)
	}

	if !tracked.LastStart.IsZero() {
		if !click.Start.After(tracked.LastStart) {
			// Duplicate or out-of-order delivery; the scan is only
			// defined over ascending starts.
			log.Printf("Skipping out-of-order click for user %d (start %s, last %s)",
				payload.UserID, click.Start.Format(event.TimeLayout), tracked.LastStart.Format(event.TimeLayout))
			return nil
		}
		tracked.State = tracked.State.Step(tracked.LastStart, click.Start, h.policy.GapThreshold)
	}
	tracked.LastStart = click.Start

	if tracked.State.Crossed(h.policy.DurationThreshold) {
		if err := h.emitVerdict(payload, tracked.State); err != nil {
			return err
		}
		if err := store.ResetRunState(h.rdb, payload.UserID); err != nil {
			return err
		}
		return nil
	}

	return store.SaveRunState(h.rdb, payload.UserID, tracked)
}

func (h *ClickHandler) emitVerdict(payload contracts.ClickPayload, state detector.RunState) error {
	ctx := context.Background()

	runClicks, err := store.ClicksInWindow(h.rdb, payload.UserID, state.Start.Unix(), payload.ClickStart.Unix())
	if err != nil {
		return fmt.Errorf("fetch run clicks: %w", err)
	}

	detectedAt := time.Now().UTC()

	if err := h.producer.PublishVerdict(ctx, VerdictEvent{
		UserID:            payload.UserID,
		SessionID:         payload.SessionID,
		Policy:            h.policy.Name(),
		IsBot:             true,
		ContinuousMinutes: state.Accumulated.Minutes(),
		RunStart:          state.Start.UTC().Format(time.RFC3339Nano),
		EventCount:        len(runClicks),
		Timestamp:         detectedAt.Format(time.RFC3339Nano),
		Source:            "stream",
	}); err != nil {
		return fmt.Errorf("kafka publish failed for verdict: %w", err)
	}

	if _, err := h.verdicts.InsertVerdict(ctx, store.Verdict{
		UserID:            payload.UserID,
		SessionID:         payload.SessionID,
		Policy:            h.policy.Name(),
		IsBot:             true,
		ContinuousMinutes: state.Accumulated.Minutes(),
		RunStart:          state.Start,
		EventCount:        len(runClicks),
		DetectedAt:        detectedAt,
	}); err != nil {
		return fmt.Errorf("postgres insert failed for verdict: %w", err)
	}

	return nil
}
