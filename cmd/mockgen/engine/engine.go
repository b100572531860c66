// Package engine generates mock tabular datasets for exercising the
// analysis pipeline without real customer data.
package engine

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GeneratorConfig controls the shape of the generated dataset.
type GeneratorConfig struct {
	Scenario string // sales, ads, survey
	Rows     int
	Seed     int64
	Start    time.Time
}

// Generate produces a header plus data rows for the configured scenario.
func Generate(cfg GeneratorConfig) ([]string, [][]string, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := cfg.Start
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, -cfg.Rows)
	}

	switch cfg.Scenario {
	case "sales":
		return generateSales(rng, cfg.Rows, start)
	case "ads":
		return generateAds(rng, cfg.Rows, start)
	case "survey":
		return generateSurvey(rng, cfg.Rows)
	default:
		return nil, nil, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
}

func generateSales(rng *rand.Rand, rows int, start time.Time) ([]string, [][]string, error) {
	header := []string{"date", "region", "revenue", "units_sold", "customer_id"}
	regions := []string{"north", "south", "east", "west"}

	out := make([][]string, rows)
	for i := range out {
		out[i] = []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			regions[rng.Intn(len(regions))],
			strconv.FormatFloat(50+rng.Float64()*950, 'f', 2, 64),
			strconv.Itoa(1 + rng.Intn(20)),
			fmt.Sprintf("C%04d", rng.Intn(rows/2+1)),
		}
	}
	return header, out, nil
}

func generateAds(rng *rand.Rand, rows int, start time.Time) ([]string, [][]string, error) {
	header := []string{"date", "campaign", "impressions", "clicks", "spend", "conversions"}
	campaigns := []string{"brand", "retargeting", "search", "social"}

	out := make([][]string, rows)
	for i := range out {
		impressions := 500 + rng.Intn(10000)
		clicks := rng.Intn(impressions/20) + 1
		out[i] = []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			campaigns[rng.Intn(len(campaigns))],
			strconv.Itoa(impressions),
			strconv.Itoa(clicks),
			strconv.FormatFloat(float64(clicks)*(0.2+rng.Float64()), 'f', 2, 64),
			strconv.Itoa(rng.Intn(clicks + 1)),
		}
	}
	return header, out, nil
}

func generateSurvey(rng *rand.Rand, rows int) ([]string, [][]string, error) {
	header := []string{"response_id", "rating", "category", "comment"}
	categories := []string{"support", "product", "pricing", "delivery"}
	comments := []string{"great", "okay", "could be better", ""}

	out := make([][]string, rows)
	for i := range out {
		out[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(1 + rng.Intn(5)),
			categories[rng.Intn(len(categories))],
			comments[rng.Intn(len(comments))],
		}
	}
	return header, out, nil
}

// Save writes the dataset as a CSV file named after the scenario.
func Save(dir, scenario string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, scenario+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	w.Flush()
	return path, w.Error()
}
