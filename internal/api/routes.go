package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	cycles := api.Group("/cycles")
	cycles.Get("", handler.ListCycles)
	cycles.Get("/ongoing", handler.GetOngoingCycle)
	cycles.Get("/start-gate", handler.GetStartGate)
	cycles.Post("/start", handler.StartCycle)
	cycles.Post("/manual", handler.CreateManualCycle)
	cycles.Get("/:id", handler.GetCycle)
	cycles.Post("/:id/end", handler.EndCycle)
	cycles.Delete("/:id", handler.DeleteCycle)
	cycles.Post("/:id/records", handler.AddUrinationRecord)
	cycles.Put("/:id/result", handler.AttachTestResult)

	records := api.Group("/records")
	records.Delete("/:id", handler.DeleteUrinationRecord)

	api.Get("/ranges", handler.GetNormalRanges)

	config := api.Group("/config")
	config.Get("", handler.GetUserConfig)
	config.Put("", handler.SaveUserConfig)

	api.Get("/export/csv", handler.ExportCSV)

	backup := api.Group("/backup")
	backup.Get("", handler.ExportBackup)
	backup.Post("", handler.ImportBackup)

	settings := api.Group("/settings")
	settings.Post("/clear-data", handler.ClearAllData)
}
