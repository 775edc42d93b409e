package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/youruser/idcardapp/internal/api"
	"github.com/youruser/idcardapp/internal/config"
	"github.com/youruser/idcardapp/internal/document"
	"github.com/youruser/idcardapp/internal/form"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Fonts are best-effort: the card still renders with the built-in face.
	fonts, err := imagepkg.LoadFonts(cfg.FontDirs)
	if err != nil {
		logger.Warn("system fonts unavailable, using built-in font", "err", err)
	}
	defer fonts.Close()

	f := form.New(imagepkg.NewRenderer(fonts, logger), form.Config{
		College:  cfg.College,
		Document: document.Options{WidthMM: cfg.PDFWidthMM},
		Logger:   logger,
	})

	r := gin.Default()
	api.RegisterRoutes(r, f, cfg.UploadDir, logger)

	logger.Info("starting server", "addr", "http://localhost:"+cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
