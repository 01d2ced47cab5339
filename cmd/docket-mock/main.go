package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/five82/docket/internal/mockapi"
)

const defaultAddr = "127.0.0.1:5000"

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("DOCKET_MOCK_ADDR", defaultAddr), "listen address")
	failRate := flag.Float64("fail-rate", 0, "fraction of status updates to fail (0-1)")
	failIDs := flag.String("fail-ids", "", "comma-separated ids whose status updates always fail")
	latency := flag.Duration("latency", 0, "delay added to every API response")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ids, err := parseIDs(*failIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docket-mock: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := mockapi.New(nil,
		mockapi.WithLogger(logger),
		mockapi.WithFailRate(*failRate),
		mockapi.WithFailIDs(ids...),
		mockapi.WithLatency(*latency),
	)
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Error("mock api stopped", slog.Any("error", err))
		return 1
	}
	return 0
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in -fail-ids", field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
