package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed index.html
var indexPage []byte

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// HandleIndex serves the single-page UI at GET /.
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexPage)
}
