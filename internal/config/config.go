// Package config reads settings from the environment, optionally seeded
// from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	FontDirs   []string
	College    string
	UploadDir  string
	PDFWidthMM float64
	LogLevel   slog.Level
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", f, err)
		}
	}

	c := Config{
		Port:       getenv("PORT", "8080"),
		College:    os.Getenv("IDCARD_COLLEGE"),
		UploadDir:  getenv("IDCARD_UPLOAD_DIR", filepath.Join(os.TempDir(), "idcard-uploads")),
		PDFWidthMM: 190,
		LogLevel:   slog.LevelInfo,
	}
	if v := os.Getenv("IDCARD_FONT_DIRS"); v != "" {
		c.FontDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("IDCARD_PDF_WIDTH_MM"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || w <= 0 {
			return Config{}, fmt.Errorf("config: IDCARD_PDF_WIDTH_MM %q: want a positive number", v)
		}
		c.PDFWidthMM = w
	}
	if v := os.Getenv("IDCARD_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return Config{}, fmt.Errorf("config: IDCARD_LOG_LEVEL: %w", err)
		}
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
