package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// Docs monta Swagger UI en /docs si existe el archivo generado con swag init.
// Devuelve false si no hay archivo; el middleware entra en pánico sin él.
func Docs(app *fiber.App, file, title string) bool {
	if file == "" {
		return false
	}
	if _, err := os.Stat(file); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: file,
		Path:     "docs",
		Title:    title,
	}))
	return true
}
