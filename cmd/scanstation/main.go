// Command scanstation runs the barcode receive station against a
// quickstock server: camera or wedge scanner in, quick-receive out.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"quickstock/station/api"
	"quickstock/station/scanner"
	"quickstock/station/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", slog.Any("err", err))
	}

	serverURL := getenv("QUICKSTOCK_URL", "http://localhost:8080")
	username := getenv("STATION_USERNAME", "scanner1")
	password := os.Getenv("STATION_PASSWORD")
	if password == "" {
		slog.Error("STATION_PASSWORD is required")
		os.Exit(1)
	}

	client, err := api.New(serverURL)
	if err != nil {
		slog.Error("build api client", slog.Any("err", err))
		os.Exit(1)
	}
	ctx := context.Background()
	if err := client.Login(ctx, username, password); err != nil {
		slog.Error("login", slog.String("server", serverURL), slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("signed in", slog.String("server", serverURL), slog.String("user", username))

	engine, failure := scanner.Discover(scanner.DiscoverConfig{
		CameraDevice:  getenv("STATION_CAMERA_DEVICE", "/dev/video0"),
		SerialPort:    os.Getenv("STATION_SERIAL_PORT"),
		SerialBaud:    envInt("STATION_SERIAL_BAUD", 0),
		PreferPolling: os.Getenv("STATION_PREFER_POLLING") == "1",
	})
	if engine == nil {
		// Manual entry still works without a scanner.
		slog.Warn("no scanner available", slog.String("fallback", failure.FallbackMessage()))
	} else {
		slog.Info("scanner ready", slog.String("engine", engine.Name()))
	}

	listener := workflow.NewConsoleListener(os.Stdout)
	ctrl := workflow.New(workflow.Config{
		Resolver:  client,
		Committer: client,
		Searcher:  client,
		Engine:    engine,
		Listener:  listener,
	})

	ctrl.Open(ctx)
	fmt.Println("Type a barcode, or: ok <qty> [mult] [+], change, pick [id], history, open, close, quit")
	runOperatorLoop(ctx, ctrl)
	ctrl.Close()
}

func runOperatorLoop(ctx context.Context, ctrl *workflow.Controller) {
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "q":
			return
		case "open":
			ctrl.Open(ctx)
		case "close":
			ctrl.Close()
			fmt.Println("Session closed")
		case "change":
			ctrl.ChangeLocation(ctx)
		case "history":
			workflow.RenderHistory(os.Stdout, ctrl.History(), ctrl.HistoryLen())
		case "pick":
			handlePick(ctx, ctrl, fields[1:])
		case "ok":
			handleCommit(ctx, ctrl, fields[1:])
		default:
			ctrl.SubmitCode(ctx, line)
		}
	}
}

func handlePick(ctx context.Context, ctrl *workflow.Controller, args []string) {
	if len(args) == 0 {
		list, err := ctrl.LocationPicker(ctx)
		if err != nil {
			fmt.Println("[error]", err)
			return
		}
		for _, loc := range list {
			fmt.Printf("  %4d  %-20s %s\n", loc.ID, loc.Code, loc.Name)
		}
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("[error] pick expects a location id")
		return
	}
	ctrl.SelectLocation(ctx, id)
}

func handleCommit(ctx context.Context, ctrl *workflow.Controller, args []string) {
	continueScanning := false
	if n := len(args); n > 0 && args[n-1] == "+" {
		continueScanning = true
		args = args[:n-1]
	}
	qty, mult := "", ""
	if len(args) > 0 {
		qty = args[0]
	}
	if len(args) > 1 {
		mult = args[1]
	}
	if qty == "" {
		if s := ctrl.State(); s.SuggestedQty > 0 {
			qty = strconv.FormatInt(s.SuggestedQty, 10)
		}
	}
	ctrl.Commit(ctx, qty, mult, continueScanning)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
