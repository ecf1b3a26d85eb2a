package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPort        = 8080
	DefaultBoardPixels = 380
	DefaultPiecePixels = 40
)

// Config is the process configuration. Every flag falls back to a
// DRAGBOARD_* environment variable.
type Config struct {
	Port         uint
	BoardPixels  float64
	PiecePixels  float64
	LegalColor   string
	IllegalColor string
	LightColor   string
	DarkColor    string
	LogLevel     slog.Level
	Print        bool
}

func parseConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("dragboard", flag.ContinueOnError)

	port, err := getenvUint("DRAGBOARD_PORT", DefaultPort)
	if err != nil {
		return cfg, err
	}
	boardPx, err := getenvFloat("DRAGBOARD_BOARD_PX", DefaultBoardPixels)
	if err != nil {
		return cfg, err
	}
	piecePx, err := getenvFloat("DRAGBOARD_PIECE_PX", DefaultPiecePixels)
	if err != nil {
		return cfg, err
	}
	level := slog.LevelInfo
	if v := os.Getenv("DRAGBOARD_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("DRAGBOARD_LOG_LEVEL: %w", err)
		}
	}

	fs.UintVar(&cfg.Port, "port", port, "Port to listen on")
	fs.Float64Var(&cfg.BoardPixels, "board-px", boardPx, "Board side length in pixels")
	fs.Float64Var(&cfg.PiecePixels, "piece-px", piecePx, "Piece side length in pixels")
	fs.StringVar(&cfg.LegalColor, "legal-color", getenv("DRAGBOARD_LEGAL_COLOR", "gold"), "Highlight colour over a legal target")
	fs.StringVar(&cfg.IllegalColor, "illegal-color", getenv("DRAGBOARD_ILLEGAL_COLOR", "crimson"), "Highlight colour over an illegal target")
	fs.StringVar(&cfg.LightColor, "light-color", getenv("DRAGBOARD_LIGHT_COLOR", "lightgreen"), "Colour of light squares")
	fs.StringVar(&cfg.DarkColor, "dark-color", getenv("DRAGBOARD_DARK_COLOR", "green"), "Colour of dark squares")
	fs.TextVar(&cfg.LogLevel, "log-level", level, "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.BoolVar(&cfg.Print, "print", false, "Print the initial board to the terminal and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.Port == 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port number %d", cfg.Port)
	}
	if cfg.BoardPixels <= 0 {
		return cfg, fmt.Errorf("invalid board size %v", cfg.BoardPixels)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvUint(key string, def uint) (uint, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint(n), nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
