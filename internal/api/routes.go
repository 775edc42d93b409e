package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/youruser/idcardapp/internal/form"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

func RegisterRoutes(r *gin.Engine, f *form.Form, uploadDir string, logger *slog.Logger) {
	h := &handler{form: f, uploadDir: uploadDir, log: logger}
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)

		card := api.Group("/card")
		card.GET("/fields", h.getFields)
		card.POST("/fields", h.setFields)
		card.POST("/photo", h.setPhoto)
		card.POST("/generate", h.generate)
		card.GET("/front.png", h.sidePNG(imagepkg.Front))
		card.GET("/back.png", h.sidePNG(imagepkg.Back))
		card.GET("/preview/:side", h.preview)
		card.GET("/pdf", h.pdf)
	}
}
