package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"devstudio/services"
)

// HandleSubscriberImport validates an uploaded CSV or XLSX subscriber list
// and, unless dry_run is set, inserts the valid rows. With report=xlsx and
// row errors present, the error report is downloaded instead.
// Route: POST /api/admin/subscribers/import
func HandleSubscriberImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return jsonError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		parsed, err := services.ParseSubscriberFile(file, header.Filename)
		if err != nil {
			log.Printf("subscriber_import: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		if e.Request.FormValue("report") == "xlsx" && len(parsed.Errors) > 0 {
			data, err := services.GenerateErrorReport(parsed.Errors)
			if err != nil {
				log.Printf("subscriber_import: error report: %v", err)
				return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			filename := fmt.Sprintf("Subscriber_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
			return sendAttachment(e, xlsxContentType, filename, data)
		}

		if cast.ToBool(e.Request.FormValue("dry_run")) {
			return e.JSON(http.StatusOK, map[string]any{
				"success": parsed.ErrorRows == 0,
				"dryRun":  true,
				"file":    parsed,
			})
		}

		source := e.Request.FormValue("source")
		if source == "" {
			source = "import"
		}
		result, err := services.CommitSubscriberImport(app, parsed.Rows, source)
		if err != nil {
			log.Printf("subscriber_import_commit: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if isHTMX(e) {
			SetToast(e, "success", fmt.Sprintf("%d subscribers imported", result.Created))
		}
		return e.JSON(http.StatusOK, map[string]any{
			"success": result.Failed == 0 && parsed.ErrorRows == 0,
			"file":    parsed,
			"result":  result,
		})
	}
}
