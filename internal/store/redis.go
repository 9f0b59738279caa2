package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"click-analyser/internal/detector"
	"click-analyser/internal/event"

	"github.com/redis/go-redis/v9"
)

const (
	clickRetention    = 72 * time.Hour
	runStateRetention = 30 * 24 * time.Hour
)

// AddClick appends a click to the user's history, scored by its start
// time so window queries can range over it. History older than the
// retention window is trimmed on every insert.
func AddClick(rdb *redis.Client, userID int, click event.Click) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := fmt.Sprintf("user:%d:clicks", userID)
	serialized, err := json.Marshal(click)
	if err != nil {
		return fmt.Errorf("Could not serialize click: %w", err)
	}

	z := redis.Z{
		Score:  float64(click.Start.Unix()),
		Member: serialized,
	}

	if err := rdb.ZAdd(ctx, key, z).Err(); err != nil {
		return fmt.Errorf("Failed to add click to redis: %w", err)
	}

	rdb.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", time.Now().Add(-clickRetention).Unix()))
	rdb.Expire(ctx, key, clickRetention)

	return nil
}

// ClicksInWindow fetches the user's clicks with start times inside the
// [start, end] unix range.
func ClicksInWindow(rdb *redis.Client, userID int, start, end int64) ([]event.Click, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := fmt.Sprintf("user:%d:clicks", userID)

	rawClicks, err := rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", start),
		Max: fmt.Sprintf("%d", end),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch clicks: %w", err)
	}

	var clicks []event.Click
	for _, raw := range rawClicks {
		var c event.Click
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("Failed to deserialize click: %w", err)
		}
		clicks = append(clicks, c)
	}

	return clicks, nil
}

// TrackedRun is the per-user continuous-run scan state the stream
// pipeline keeps between records: the run itself plus the start of the
// last click seen, which the next gap is measured against.
type TrackedRun struct {
	State     detector.RunState
	LastStart time.Time
}

func runStateKey(userID int) string {
	return fmt.Sprintf("user:%d:run_state", userID)
}

// LoadRunState reads the user's scan state. A user with no stored
// state gets the zero TrackedRun.
func LoadRunState(rdb *redis.Client, userID int) (TrackedRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	vals, err := rdb.HGetAll(ctx, runStateKey(userID)).Result()
	if err != nil {
		return TrackedRun{}, fmt.Errorf("Could not get run state of user with id: %d: %w", userID, err)
	}
	if len(vals) == 0 {
		return TrackedRun{}, nil
	}

	var tracked TrackedRun
	if raw, ok := vals["run_start"]; ok {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TrackedRun{}, fmt.Errorf("Invalid stored run_start: %w", err)
		}
		if unix > 0 {
			tracked.State.Start = time.Unix(unix, 0).UTC()
		}
	}
	if raw, ok := vals["accumulated_ms"]; ok {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TrackedRun{}, fmt.Errorf("Invalid stored accumulated_ms: %w", err)
		}
		tracked.State.Accumulated = time.Duration(ms) * time.Millisecond
	}
	if raw, ok := vals["last_start"]; ok {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TrackedRun{}, fmt.Errorf("Invalid stored last_start: %w", err)
		}
		if unix > 0 {
			tracked.LastStart = time.Unix(unix, 0).UTC()
		}
	}

	return tracked, nil
}

// SaveRunState writes the user's scan state back.
func SaveRunState(rdb *redis.Client, userID int, tracked TrackedRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := runStateKey(userID)

	runStart := int64(0)
	if !tracked.State.Start.IsZero() {
		runStart = tracked.State.Start.Unix()
	}
	lastStart := int64(0)
	if !tracked.LastStart.IsZero() {
		lastStart = tracked.LastStart.Unix()
	}

	fields := map[string]interface{}{
		"run_start":      runStart,
		"accumulated_ms": tracked.State.Accumulated.Milliseconds(),
		"last_start":     lastStart,
	}

	if err := rdb.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("Could not store run state: %w", err)
	}
	rdb.Expire(ctx, key, runStateRetention)

	return nil
}

// ResetRunState clears the user's scan state after a verdict so the
// next click starts a fresh run.
func ResetRunState(rdb *redis.Client, userID int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Del(ctx, runStateKey(userID)).Err(); err != nil {
		return fmt.Errorf("Could not reset run state: %w", err)
	}
	return nil
}
