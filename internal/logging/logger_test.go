package logging

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestForComponentPicksUpLateInit(t *testing.T) {
	// Component loggers declared before Init must still write once Init
	// has run.
	log := ForComponent(CompPalette)

	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "debug", Debug: true})
	defer Shutdown()

	log.Info("search_pass", slog.Int("candidates", 12))

	f, err := os.Open(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	found := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec["msg"] == "search_pass" && rec["component"] == CompPalette {
			found = true
			if rec["candidates"] != float64(12) {
				t.Errorf("candidates = %v", rec["candidates"])
			}
		}
	}
	if !found {
		t.Error("component log line not written")
	}
}

func TestInitDiscardsWithoutLogDir(t *testing.T) {
	Init(Config{})
	Logger().Info("goes nowhere")
	// No panic and no file output is the contract.
}
