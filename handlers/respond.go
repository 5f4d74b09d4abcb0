package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
	"devstudio/templates"
)

func siteData(cfg *config.Config) templates.SiteData {
	return templates.SiteData{StudioName: cfg.StudioName, SiteURL: cfg.SiteURL}
}

// renderPage writes body inside the public site layout.
func renderPage(e *core.RequestEvent, cfg *config.Config, status int, title string, body templ.Component) error {
	e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	e.Response.WriteHeader(status)
	return templates.Page(siteData(cfg), title, body).Render(e.Request.Context(), e.Response)
}

// validationFailed responds 400 with a field -> message map.
func validationFailed(e *core.RequestEvent, err error) error {
	return e.JSON(http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   "Validation failed",
		"fields":  services.FieldErrors(err),
	})
}

func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// sendAttachment writes data as a file download.
func sendAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return e.Blob(http.StatusOK, contentType, data)
}
