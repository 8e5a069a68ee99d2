// Package main - agitator
// Load generator for the Mafia server: drives whole games through the HTTP
// API while a WebSocket spectator counts the streamed narration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL string
	WSURL     string
	NumGames  int
	Players   int
	Duration  time.Duration
}

// Stats tracks load-test counters.
type Stats struct {
	GamesStarted   int64
	GamesFinished  int64
	StepsRequested int64
	WSMessages     int64
	Errors         int64
}

type startResponse struct {
	GameID string `json:"game_id"`
}

type stateResponse struct {
	Phase string `json:"game_phase"`
}

func main() {
	serverURL := flag.String("url", "http://localhost:5001", "HTTP API base URL")
	wsURL := flag.String("ws", "ws://localhost:5001/ws", "WebSocket feed URL")
	numGames := flag.Int("games", 5, "Number of concurrent games to run")
	players := flag.Int("players", 7, "Players per game")
	duration := flag.Duration("duration", 120*time.Second, "Maximum test duration")
	flag.Parse()

	config := Config{
		ServerURL: *serverURL,
		WSURL:     *wsURL,
		NumGames:  *numGames,
		Players:   *players,
		Duration:  *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - Mafia server load generator")
	fmt.Println("=========================================")
	fmt.Printf("Server:   %s\n", config.ServerURL)
	fmt.Printf("Games:    %d\n", config.NumGames)
	fmt.Printf("Players:  %d\n", config.Players)
	fmt.Printf("Duration: %v\n", config.Duration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	stats := &Stats{}
	start := time.Now()

	go watchFeed(ctx, config, stats)

	var wg sync.WaitGroup
	for i := 0; i < config.NumGames; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			runGame(ctx, n, config, stats)
		}(i)

		// Stagger game starts to avoid thundering herd
		time.Sleep(50 * time.Millisecond)
	}

	wg.Wait()
	printResults(stats, time.Since(start))
}

// runGame starts one game and steps it until it ends or the context expires.
func runGame(ctx context.Context, n int, config Config, stats *Stats) {
	client := resty.New().
		SetBaseURL(config.ServerURL).
		SetTimeout(5 * time.Minute)

	var started startResponse
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]int{"num_agents": config.Players}).
		SetResult(&started).
		Post("/api/games")
	if err != nil {
		log.Printf("Game %d: start failed: %v", n, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	if resp.IsError() {
		log.Printf("Game %d: start refused (status %d)", n, resp.StatusCode())
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	atomic.AddInt64(&stats.GamesStarted, 1)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var state stateResponse
		resp, err := client.R().
			SetContext(ctx).
			SetResult(&state).
			Post("/api/games/" + started.GameID + "/step")
		atomic.AddInt64(&stats.StepsRequested, 1)

		if err != nil {
			atomic.AddInt64(&stats.Errors, 1)
			return
		}
		if resp.IsError() {
			// A 400 on step means the game already ended.
			atomic.AddInt64(&stats.GamesFinished, 1)
			return
		}
		if state.Phase == "End" {
			atomic.AddInt64(&stats.GamesFinished, 1)
			return
		}
	}
}

// watchFeed subscribes to the spectator WebSocket and counts messages.
func watchFeed(ctx context.Context, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.WSURL, nil)
	if err != nil {
		log.Printf("WebSocket connect failed: %v", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		atomic.AddInt64(&stats.WSMessages, 1)
	}
}

func printResults(stats *Stats, elapsed time.Duration) {
	started := atomic.LoadInt64(&stats.GamesStarted)
	finished := atomic.LoadInt64(&stats.GamesFinished)
	steps := atomic.LoadInt64(&stats.StepsRequested)
	msgs := atomic.LoadInt64(&stats.WSMessages)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Println("\n=========================================")
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println("=========================================")
	fmt.Printf("Elapsed:         %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Games started:   %s\n", humanize.Comma(started))
	fmt.Printf("Games finished:  %s\n", humanize.Comma(finished))
	fmt.Printf("Steps requested: %s\n", humanize.Comma(steps))
	fmt.Printf("WS messages:     %s\n", humanize.Comma(msgs))
	fmt.Printf("Errors:          %s\n", humanize.Comma(errs))
	if elapsed > 0 {
		fmt.Printf("Step rate:       %.2f/sec\n", float64(steps)/elapsed.Seconds())
	}

	fmt.Println("-----------------------------------------")
	switch {
	case errs == 0 && finished == started:
		fmt.Println("TEST PASSED: every game ran to completion")
	case errs == 0:
		fmt.Println("TEST WARNING: some games did not finish in time")
	default:
		fmt.Println("TEST FAILED: errors detected")
	}
	fmt.Println("=========================================")
}
