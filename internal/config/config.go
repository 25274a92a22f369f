package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/volumate/volumate/internal/domain"
)

// defaultScanFrame is the capture rectangle used when SCAN_FRAME is not
// set, sized for a portrait phone viewfinder.
const defaultScanFrame = "220,40,280,160"

type Config struct {
	ListenAddr     string
	DBPath         string
	FoodAPIBaseURL string
	ScanFrame      domain.ScanFrame
	LogLevel       string
	LogFormat      string
	LogFile        string
}

func Load() (*Config, error) {
	frame, err := parseScanFrame(getEnv("SCAN_FRAME", defaultScanFrame))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_FRAME: %w", err)
	}

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "volumate.db"),
		FoodAPIBaseURL: strings.TrimRight(getEnv("FOOD_API_BASE_URL", "http://localhost:8081/api"), "/"),
		ScanFrame:      frame,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LogFile:        getEnv("LOG_FILE", ""),
	}, nil
}

// parseScanFrame reads a "top,left,width,height" quadruple.
func parseScanFrame(s string) (domain.ScanFrame, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.ScanFrame{}, fmt.Errorf("expected top,left,width,height, got %q", s)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.ScanFrame{}, fmt.Errorf("component %d of %q is not a number", i+1, s)
		}
		vals[i] = v
	}

	frame := domain.ScanFrame{Top: vals[0], Left: vals[1], Width: vals[2], Height: vals[3]}
	if frame.Width <= 0 || frame.Height <= 0 {
		return domain.ScanFrame{}, fmt.Errorf("frame size must be positive, got %q", s)
	}
	return frame, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
