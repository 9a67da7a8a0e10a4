// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/adapters/http/notes"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
// При nil tokenService маршруты заметок доступны без авторизации.
func SetupRouter(app *fiber.App, useCase api.NoteUseCase, tokenService services.TokenService) {
	notesHandler := notes.NewHandler(useCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/ping", func(ctx fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ping": "pong!"})
	})

	notesRoutes := app.Group("/notes")
	if tokenService != nil {
		notesRoutes.Use(middleware.NewAuthMiddleware(tokenService))
	}
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/:id", notesHandler.GetNote)
	notesRoutes.Put("/:id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:id", notesHandler.DeleteNote)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Not Found",
		})
	})
}
