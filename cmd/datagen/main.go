package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"click-analyser/internal/datagen"
	"click-analyser/internal/env"
	"click-analyser/internal/event"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
)

type flags struct {
	Users    int
	Days     int
	BotRate  float64
	Seed     uint64
	Out      string
	Mode     string
	Endpoint string
}

func parseFlags() flags {
	var f flags

	flag.IntVar(&f.Users, "users", 20, "Number of users to simulate")
	flag.IntVar(&f.Days, "days", 3, "Number of consecutive days of activity per user")
	flag.Float64Var(&f.BotRate, "bot-rate", 0.2, "Fraction of users that behave like bots (0.0 - 1.0)")
	flag.Uint64Var(&f.Seed, "seed", 123, "Faker seed")
	flag.StringVar(&f.Out, "out", "./csvs", "Folder to write CSV files into (csv mode)")
	flag.StringVar(&f.Mode, "mode", "csv", "Output mode: csv, http")
	flag.StringVar(&f.Endpoint, "endpoint", env.GetEnvString("INGEST_API_URL", "http://localhost:8081/clicks"), "Ingest endpoint (http mode)")

	flag.Parse()

	if f.BotRate < 0.0 || f.BotRate > 1.0 {
		log.Fatal("Bot rate must be between 0.0 and 1.0!")
	}
	if f.Mode != "csv" && f.Mode != "http" {
		log.Fatalf("Unknown mode %q", f.Mode)
	}

	return f
}

func main() {
	godotenv.Load("../../.env")
	f := parseFlags()
	faker := gofakeit.New(f.Seed)
	generator := datagen.NewGenerator(faker)

	if f.Mode == "csv" {
		if err := os.MkdirAll(f.Out, 0o755); err != nil {
			log.Fatalf("Could not create output folder: %v", err)
		}
	}

	firstDay := time.Now().UTC().AddDate(0, 0, -f.Days).Truncate(24 * time.Hour)

	for userID := 1; userID <= f.Users; userID++ {
		clicks := generateUser(generator, faker, f, firstDay)
		event.SortByStart(clicks)

		switch f.Mode {
		case "csv":
			path := filepath.Join(f.Out, fmt.Sprintf("%d.csv", userID))
			if err := datagen.WriteCSV(path, clicks); err != nil {
				log.Printf("Error writing clicks for user %d: %v", userID, err)
				continue
			}
			log.Printf("Wrote %d clicks for user %d to %s", len(clicks), userID, path)
		case "http":
			if err := datagen.SendClicks(f.Endpoint, userID, clicks); err != nil {
				log.Printf("Error sending clicks for user %d: %v", userID, err)
				continue
			}
			log.Printf("Sent %d clicks for user %d", len(clicks), userID)
		}
	}
}

func generateUser(generator *datagen.Generator, faker *gofakeit.Faker, f flags, firstDay time.Time) []event.Click {
	if faker.Float64Range(0, 1) >= f.BotRate {
		var clicks []event.Click
		for d := 0; d < f.Days; d++ {
			clicks = append(clicks, generator.HumanDay(firstDay.AddDate(0, 0, d))...)
		}
		return clicks
	}

	switch faker.Number(0, 2) {
	case 0:
		return generator.ContinuousBotDay(firstDay)
	case 1:
		return generator.SpanBotDay(firstDay)
	default:
		return generator.MultiDayBot(firstDay, f.Days)
	}
}
