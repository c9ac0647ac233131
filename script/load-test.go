package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

// PointsRequest represents the earn/redeem payload
type PointsRequest struct {
	Points      int64  `json:"points"`
	Description string `json:"description"`
}

// UserResponse represents the user returned by the API
type UserResponse struct {
	ID            uint64 `json:"id"`
	PointsBalance int64  `json:"points_balance"`
}

// TransactionResponse represents one ledger entry returned by the API
type TransactionResponse struct {
	ID          uint64 `json:"id"`
	PointChange int64  `json:"point_change"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	Accepted     bool
	PointChange  int64
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	Accepted          int
	Rejected          int // 400 negative balance, expected under load
	Failed            int
	AcceptedSum       int64
	TotalTime         time.Duration
	ResponseTimes     []time.Duration
	TotalResponseTime time.Duration
	StatusCounts      map[int]int
	ScenarioStats     map[string]int
	ErrorCounts       map[string]int
}

// PointsScenario defines a point change scenario
type PointsScenario struct {
	Name      string
	Direction string
	Points    int64
}

func main() {
	concurrency := flag.Int("c", 20, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of requests to make")
	userID := flag.Uint64("u", 1, "User ID to hammer")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 0, "Delay between requests of one worker in milliseconds")
	flag.Parse()

	scenarios := []PointsScenario{
		{"Earn Small", "earn", 1},
		{"Earn Medium", "earn", 5},
		{"Earn Large", "earn", 20},
		{"Redeem Small", "redeem", 2},
		{"Redeem Medium", "redeem", 10},
		{"Redeem Large", "redeem", 30},
	}

	client := &http.Client{Timeout: 10 * time.Second}

	before, err := fetchUser(client, *baseURL, *userID)
	if err != nil {
		fmt.Printf("Cannot read user %d before the test: %v\n", *userID, err)
		os.Exit(1)
	}
	beforeEntries, err := fetchTransactions(client, *baseURL, *userID)
	if err != nil {
		fmt.Printf("Cannot read ledger of user %d before the test: %v\n", *userID, err)
		os.Exit(1)
	}

	fmt.Printf("Load testing user %d (starting balance %d)\n", *userID, before.PointsBalance)
	fmt.Printf("Concurrency: %d goroutines, total requests: %d\n", *concurrency, *totalRequests)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		StatusCounts:  make(map[int]int),
		ScenarioStats: make(map[string]int),
		ErrorCounts:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *userID, *delayMs, scenarios, jobs, results)
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	startTime := time.Now()
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		collect(stats, result)
	}
	stats.TotalTime = time.Since(startTime)

	printResults(stats)

	after, err := fetchUser(client, *baseURL, *userID)
	if err != nil {
		fmt.Printf("Cannot read user %d after the test: %v\n", *userID, err)
		os.Exit(1)
	}
	afterEntries, err := fetchTransactions(client, *baseURL, *userID)
	if err != nil {
		fmt.Printf("Cannot read ledger of user %d after the test: %v\n", *userID, err)
		os.Exit(1)
	}

	if !checkInvariants(before, after, len(afterEntries)-len(beforeEntries), stats) {
		os.Exit(1)
	}
}

func worker(client *http.Client, baseURL string, userID uint64, delayMs int,
	scenarios []PointsScenario, jobs <-chan int, results chan<- TestResult) {

	for jobID := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		scenario := scenarios[rand.Intn(len(scenarios))]
		result := TestResult{Scenario: scenario.Name}

		body, err := json.Marshal(PointsRequest{
			Points:      scenario.Points,
			Description: fmt.Sprintf("load test %d", jobID),
		})
		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		apiURL := fmt.Sprintf("%s/users/%d/%s", baseURL, userID, scenario.Direction)
		start := time.Now()
		resp, err := client.Post(apiURL, "application/json", bytes.NewReader(body))
		result.ResponseTime = time.Since(start)

		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Accepted = resp.StatusCode == http.StatusOK
			if result.Accepted {
				result.PointChange = scenario.Points
				if scenario.Direction == "redeem" {
					result.PointChange = -scenario.Points
				}
			}
			_ = resp.Body.Close()
		}

		results <- result
	}
}

func collect(stats *TestStats, result TestResult) {
	stats.ScenarioStats[result.Scenario]++
	stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
	stats.TotalResponseTime += result.ResponseTime

	switch {
	case result.Error != nil:
		stats.Failed++
		stats.ErrorCounts[result.Error.Error()]++
	case result.Accepted:
		stats.Accepted++
		stats.AcceptedSum += result.PointChange
		stats.StatusCounts[result.StatusCode]++
	case result.StatusCode == http.StatusBadRequest:
		stats.Rejected++
		stats.StatusCounts[result.StatusCode]++
	default:
		stats.Failed++
		stats.StatusCounts[result.StatusCode]++
	}
}

func fetchUser(client *http.Client, baseURL string, userID uint64) (*UserResponse, error) {
	var user UserResponse
	if err := getJSON(client, fmt.Sprintf("%s/users/%d", baseURL, userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func fetchTransactions(client *http.Client, baseURL string, userID uint64) ([]TransactionResponse, error) {
	var txs []TransactionResponse
	if err := getJSON(client, fmt.Sprintf("%s/users/%d/transactions", baseURL, userID), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkInvariants reports whether the final state matches the accepted changes
func checkInvariants(before, after *UserResponse, newEntries int, stats *TestStats) bool {
	ok := true

	fmt.Println("\n================= INVARIANTS =================")
	if after.PointsBalance < 0 {
		fmt.Printf("❌ Balance is negative: %d\n", after.PointsBalance)
		ok = false
	} else {
		fmt.Printf("✅ Balance is non-negative: %d\n", after.PointsBalance)
	}

	expected := before.PointsBalance + stats.AcceptedSum
	if after.PointsBalance != expected {
		fmt.Printf("❌ Balance %d != starting balance %d + accepted changes %d\n",
			after.PointsBalance, before.PointsBalance, stats.AcceptedSum)
		ok = false
	} else {
		fmt.Printf("✅ Balance equals starting balance plus accepted changes (%d)\n", expected)
	}

	if newEntries != stats.Accepted {
		fmt.Printf("❌ %d new ledger entries for %d accepted changes\n", newEntries, stats.Accepted)
		ok = false
	} else {
		fmt.Printf("✅ One ledger entry per accepted change (%d)\n", newEntries)
	}
	fmt.Println("================================================")

	return ok
}

func printResults(stats *TestStats) {
	var avg, p50, p90, p99 time.Duration
	if n := len(stats.ResponseTimes); n > 0 {
		sorted := make([]time.Duration, n)
		copy(sorted, stats.ResponseTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		avg = stats.TotalResponseTime / time.Duration(n)
		p50 = sorted[n*50/100]
		p90 = sorted[n*90/100]
		p99 = sorted[n*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Accepted:            %d\n", stats.Accepted)
	fmt.Printf("Rejected (400):      %d\n", stats.Rejected)
	fmt.Printf("Failed:              %d\n", stats.Failed)
	fmt.Printf("Accepted net change: %d\n", stats.AcceptedSum)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	if stats.TotalTime > 0 {
		fmt.Printf("Throughput:          %.2f requests/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())
	}

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- STATUS CODES -----------------")
	for status, count := range stats.StatusCounts {
		fmt.Printf("%d: %d\n", status, count)
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests\n", scenario, count)
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}
}
