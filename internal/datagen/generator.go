package datagen

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	contracts "click-analyser/contracts/events"
	"click-analyser/internal/event"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Generator produces synthetic click activity for exercising the
// classification pipelines end to end.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(faker *gofakeit.Faker) *Generator {
	return &Generator{faker: faker}
}

// HumanDay is irregular activity: clicks with gaps straddling any
// reasonable gap threshold, so no continuous run survives for long.
func (g *Generator) HumanDay(day time.Time) []event.Click {
	cursor := day.Add(time.Duration(g.faker.Number(7, 10)) * time.Hour)
	count := g.faker.Number(15, 40)

	clicks := make([]event.Click, 0, count)
	for i := 0; i < count; i++ {
		span := time.Duration(g.faker.Number(5, 180)) * time.Second
		clicks = append(clicks, event.Click{Start: cursor, End: cursor.Add(span)})

		gap := time.Duration(g.faker.Number(2, 90)) * time.Minute
		cursor = cursor.Add(gap)
	}
	return clicks
}

// ContinuousBotDay is steady clicking with sub-threshold gaps for
// hours, the pattern the continuous-run policies flag.
func (g *Generator) ContinuousBotDay(day time.Time) []event.Click {
	cursor := day.Add(time.Duration(g.faker.Number(0, 3)) * time.Hour)
	total := time.Duration(0)
	target := time.Duration(g.faker.Number(6, 9)) * time.Hour

	var clicks []event.Click
	for total < target {
		span := time.Duration(g.faker.Number(5, 60)) * time.Second
		clicks = append(clicks, event.Click{Start: cursor, End: cursor.Add(span)})

		gap := time.Duration(g.faker.Number(3, 8)) * time.Minute
		cursor = cursor.Add(gap)
		total += gap
	}
	return clicks
}

// SpanBotDay is a handful of abnormally long clicks whose spans cross
// the total-hours and longest-click thresholds.
func (g *Generator) SpanBotDay(day time.Time) []event.Click {
	cursor := day.Add(time.Duration(g.faker.Number(0, 2)) * time.Hour)
	total := time.Duration(0)
	target := time.Duration(g.faker.Number(9, 12)) * time.Hour

	var clicks []event.Click
	for total < target {
		span := time.Duration(g.faker.Number(25, 120)) * time.Minute
		clicks = append(clicks, event.Click{Start: cursor, End: cursor.Add(span)})
		cursor = cursor.Add(span + time.Duration(g.faker.Number(1, 20))*time.Minute)
		total += span
	}
	return clicks
}

// MultiDayBot repeats the continuous pattern across consecutive days.
func (g *Generator) MultiDayBot(firstDay time.Time, days int) []event.Click {
	var clicks []event.Click
	for d := 0; d < days; d++ {
		clicks = append(clicks, g.ContinuousBotDay(firstDay.AddDate(0, 0, d))...)
	}
	return clicks
}

// WriteCSV writes one user's clicks in the exporter column layout.
func WriteCSV(path string, clicks []event.Click) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"clickStart", "clickEnd"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, click := range clicks {
		end := ""
		if click.HasEnd() {
			end = click.End.Format(event.TimeLayout)
		}
		if err := w.Write([]string{click.Start.Format(event.TimeLayout), end}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// SendClicks posts one user's clicks to the ingest endpoint as a
// single session batch.
func SendClicks(endpoint string, userID int, clicks []event.Click) error {
	sessionID := uuid.NewString()

	payloads := make([]contracts.ClickPayload, 0, len(clicks))
	for _, click := range clicks {
		payload := contracts.ClickPayload{
			UserID:     userID,
			SessionID:  sessionID,
			ClickStart: click.Start,
		}
		if click.HasEnd() {
			end := click.End
			payload.ClickEnd = &end
		}
		payloads = append(payloads, payload)
	}

	raw, err := json.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("Could not marshal clicks: %w", err)
	}

	resp, err := http.Post(endpoint, "application/json; charset=utf-8", bytes.NewBuffer(raw))
	if err != nil {
		return fmt.Errorf("Could not send clicks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ingest endpoint returned %s", resp.Status)
	}
	return nil
}
