// Command simulate fires concurrent booking requests at one slot of a running
// api-server and verifies that exactly one of them wins the slot.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

type SimConfig struct {
	APIBaseURL     string
	Workers        int
	PractitionerID string
	Date           string
	StartTime      string
	EndTime        string
}

type attemptResult struct {
	status  int
	latency time.Duration
	number  string
	err     error
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := loadConfig()
	if cfg.Date == "" {
		// Default to a week from now; the slot only needs to be unique, not
		// to match configured availability.
		cfg.Date = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}

	log.Printf("simulating %d concurrent bookings for %s %s %s-%s",
		cfg.Workers, cfg.PractitionerID, cfg.Date, cfg.StartTime, cfg.EndTime)

	gofakeit.Seed(time.Now().UnixNano())

	client := &http.Client{Timeout: 10 * time.Second}
	results := make([]attemptResult, cfg.Workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			results[idx] = attemptBooking(client, cfg, gofakeit.Name())
		}(i)
	}
	close(start)
	wg.Wait()

	report(results)
}

func attemptBooking(client *http.Client, cfg SimConfig, patientName string) attemptResult {
	body, _ := json.Marshal(map[string]any{
		"practitionerId":  cfg.PractitionerID,
		"patientName":     patientName,
		"appointmentDate": cfg.Date,
		"timeSlot": map[string]string{
			"startTime": cfg.StartTime,
			"endTime":   cfg.EndTime,
		},
	})

	began := time.Now()
	resp, err := client.Post(cfg.APIBaseURL+"/appointments", "application/json", bytes.NewReader(body))
	latency := time.Since(began)
	if err != nil {
		return attemptResult{err: err, latency: latency}
	}
	defer resp.Body.Close()

	res := attemptResult{status: resp.StatusCode, latency: latency}
	if resp.StatusCode == http.StatusCreated {
		var created struct {
			AppointmentNumber string `json:"appointmentNumber"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &created); err == nil {
			res.number = created.AppointmentNumber
		}
	}
	return res
}

func report(results []attemptResult) {
	var created, conflict, errored int
	var latencies []time.Duration
	winners := make([]string, 0, 1)

	for _, r := range results {
		latencies = append(latencies, r.latency)
		switch {
		case r.err != nil:
			errored++
		case r.status == http.StatusCreated:
			created++
			winners = append(winners, r.number)
		case r.status == http.StatusConflict:
			conflict++
		default:
			errored++
		}
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg := sum / time.Duration(len(latencies))
	p95 := latencies[len(latencies)*95/100-1]

	fmt.Println("---- booking race report ----")
	fmt.Printf("attempts:  %d\n", len(results))
	fmt.Printf("created:   %d %v\n", created, winners)
	fmt.Printf("conflicts: %d\n", conflict)
	fmt.Printf("errors:    %d\n", errored)
	fmt.Printf("latency:   avg=%s p95=%s\n", avg, p95)

	if created != 1 {
		log.Fatalf("FAIL: expected exactly 1 successful booking, got %d", created)
	}
	fmt.Println("PASS: exactly one booking won the slot")
}

func loadConfig() SimConfig {
	return SimConfig{
		APIBaseURL:     getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Workers:        getInt("SIM_WORKERS", 25),
		PractitionerID: getEnv("SIM_PRACTITIONER_ID", "doc-0001"),
		Date:           os.Getenv("SIM_DATE"),
		StartTime:      getEnv("SIM_START_TIME", "09:00"),
		EndTime:        getEnv("SIM_END_TIME", "10:00"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
