package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

const (
	importBatchSize     = 100
	maxImportFileBytes  = 5 << 20
	xlsxMIME            = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	subscriberStatusOn  = "active"
	subscriberStatusOff = "unsubscribed"
	rejectedSheet       = "Rejected rows"
)

var errNoSubscribers = errors.New("subscriber list has a header row but no subscribers")

// SubscriberStatusOptions are the lifecycle states of a subscriber.
var SubscriberStatusOptions = []string{subscriberStatusOn, subscriberStatusOff}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// SubscriberRow is one parsed, valid row of an import file.
type SubscriberRow struct {
	Row   int      `json:"row"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
}

// SubscriberFile is the result of parsing and validating an upload.
type SubscriberFile struct {
	FileName   string            `json:"fileName"`
	Format     string            `json:"format"`
	TotalRows  int               `json:"totalRows"`
	ValidRows  int               `json:"validRows"`
	ErrorRows  int               `json:"errorRows"`
	Duplicates int               `json:"duplicates"`
	Errors     []ValidationError `json:"errors"`
	Rows       []SubscriberRow   `json:"-"`
}

// ImportResult holds the outcome of committing an import.
type ImportResult struct {
	TotalRows int               `json:"totalRows"`
	Created   int               `json:"created"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

var subscriberHeaderAliases = map[string]string{
	"email":         "email",
	"e-mail":        "email",
	"email address": "email",
	"name":          "name",
	"full name":     "name",
	"tags":          "tags",
	"tag":           "tags",
}

// ParseSubscriberFile sniffs the upload type from its content (CSV or XLSX),
// maps the header row and validates every data row. Rows that repeat an
// earlier email are reported as duplicates and dropped.
func ParseSubscriberFile(r io.Reader, fileName string) (*SubscriberFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImportFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxImportFileBytes {
		return nil, fmt.Errorf("file is larger than %d MB", maxImportFileBytes>>20)
	}

	format, err := detectImportFormat(data, fileName)
	if err != nil {
		return nil, err
	}

	var sheet []sheetRow
	if format == "xlsx" {
		sheet, err = readSubscriberWorkbook(bytes.NewReader(data))
	} else {
		sheet, err = readSubscriberCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	result := &SubscriberFile{
		FileName:  fileName,
		Format:    format,
		TotalRows: len(sheet),
		Errors:    []ValidationError{},
		Rows:      make([]SubscriberRow, 0, len(sheet)),
	}

	firstSeen := make(map[string]int)
	errorRows := make(map[int]bool)
	for _, raw := range sheet {
		rowNum := raw.line
		row := SubscriberRow{
			Row:   rowNum,
			Email: strings.ToLower(raw.fields["email"]),
			Name:  raw.fields["name"],
			Tags:  splitTags(raw.fields["tags"]),
		}

		if err := ValidateSubscriberEmail(row.Email); err != nil {
			result.Errors = append(result.Errors, ValidationError{Row: rowNum, Field: "email", Email: row.Email, Message: err.Error()})
			errorRows[rowNum] = true
			continue
		}
		if prev, ok := firstSeen[row.Email]; ok {
			result.Duplicates++
			result.Errors = append(result.Errors, ValidationError{
				Row:     rowNum,
				Field:   "email",
				Email:   row.Email,
				Message: fmt.Sprintf("duplicate of row %d", prev),
			})
			errorRows[rowNum] = true
			continue
		}
		firstSeen[row.Email] = rowNum
		result.Rows = append(result.Rows, row)
	}

	result.ErrorRows = len(errorRows)
	result.ValidRows = len(result.Rows)
	return result, nil
}

// ValidateSubscriberEmail checks that email is present and well formed.
func ValidateSubscriberEmail(email string) error {
	return validation.Validate(email, validation.Required, validation.Length(3, 254), is.EmailFormat)
}

func detectImportFormat(data []byte, fileName string) (string, error) {
	mt := mimetype.Detect(data)
	lowerName := strings.ToLower(fileName)
	switch {
	case mt.Is(xlsxMIME):
		return "xlsx", nil
	case mt.Is("application/zip") && strings.HasSuffix(lowerName, ".xlsx"):
		return "xlsx", nil
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/csv") || m.Is("text/plain") {
			return "csv", nil
		}
	}
	return "", fmt.Errorf("unsupported file type %s: must be .csv or .xlsx", mt.String())
}

// sheetRow is one non-blank data row of an upload, keyed by subscriber field.
type sheetRow struct {
	line   int
	fields map[string]string
}

// subscriberColumns holds the subscriber field for each column of an upload,
// "" where the column is ignored.
type subscriberColumns []string

// row keys cells by field. Blank rows report false.
func (c subscriberColumns) row(line int, cells []string) (sheetRow, bool) {
	r := sheetRow{line: line, fields: make(map[string]string, 3)}
	blank := true
	for i, cell := range cells {
		v := strings.TrimSpace(cell)
		if v != "" {
			blank = false
		}
		if i < len(c) && c[i] != "" {
			r.fields[c[i]] = v
		}
	}
	return r, !blank
}

// readSubscriberCSV streams a CSV upload. Lines are numbered as they appear
// in the file.
func readSubscriberCSV(r io.Reader) ([]sheetRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errNoSubscribers
	}
	if err != nil {
		return nil, fmt.Errorf("subscriber list is not valid CSV: %w", err)
	}
	columns, err := mapSubscriberHeaders(header)
	if err != nil {
		return nil, err
	}

	var rows []sheetRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("subscriber list is not valid CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if row, ok := columns.row(line, cells); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, errNoSubscribers
	}
	return rows, nil
}

// readSubscriberWorkbook streams the first sheet of an xlsx upload.
func readSubscriberWorkbook(r io.Reader) ([]sheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("subscriber list is not a readable workbook: %w", err)
	}
	defer f.Close()

	it, err := f.Rows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("subscriber sheet: %w", err)
	}
	defer it.Close()

	var columns subscriberColumns
	var rows []sheetRow
	for line := 1; it.Next(); line++ {
		cells, err := it.Columns()
		if err != nil {
			return nil, fmt.Errorf("subscriber sheet row %d: %w", line, err)
		}
		if columns == nil {
			if columns, err = mapSubscriberHeaders(cells); err != nil {
				return nil, err
			}
			continue
		}
		if row, ok := columns.row(line, cells); ok {
			rows = append(rows, row)
		}
	}
	if columns == nil || len(rows) == 0 {
		return nil, errNoSubscribers
	}
	return rows, nil
}

// mapSubscriberHeaders matches header cells against the known aliases.
// An email column is required.
func mapSubscriberHeaders(headers []string) (subscriberColumns, error) {
	mapped := make(subscriberColumns, len(headers))
	hasEmail := false
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, "*"))
		if key, ok := subscriberHeaderAliases[norm]; ok {
			mapped[i] = key
			if key == "email" {
				hasEmail = true
			}
		}
	}
	if !hasEmail {
		return nil, fmt.Errorf("subscriber list has no email column (expected one of: email, e-mail, email address)")
	}
	return mapped, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' || r == '|' })
	return dedupe(parts)
}

// CommitSubscriberImport inserts the parsed rows in chunks of importBatchSize.
// Emails that already exist are skipped, including unsubscribed ones, so an
// import never re-subscribes someone who opted out. A chunk that fails to
// save is rolled back as a whole and the remaining chunks still run.
func CommitSubscriberImport(app core.App, rows []SubscriberRow, source string) (*ImportResult, error) {
	col, err := app.FindCollectionByNameOrId("subscribers")
	if err != nil {
		return nil, fmt.Errorf("subscribers collection not found: %w", err)
	}

	result := &ImportResult{TotalRows: len(rows)}

	for chunkStart := 0; chunkStart < len(rows); chunkStart += importBatchSize {
		chunkEnd := min(chunkStart+importBatchSize, len(rows))
		chunk := rows[chunkStart:chunkEnd]

		created, skipped, chunkErrors := insertSubscriberChunk(app, col, chunk, source)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) - skipped
			result.Skipped += skipped
			continue
		}
		result.Created += created
		result.Skipped += skipped
	}

	app.Logger().Info("subscriber import committed",
		"source", source,
		"total", result.TotalRows,
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func insertSubscriberChunk(app core.App, col *core.Collection, rows []SubscriberRow, source string) (int, int, []ValidationError) {
	var chunkErrors []ValidationError
	created, skipped := 0, 0

	err := app.RunInTransaction(func(txApp core.App) error {
		created, skipped = 0, 0
		for _, row := range rows {
			existing, _ := txApp.FindFirstRecordByData(col, "email", row.Email)
			if existing != nil {
				skipped++
				continue
			}

			record := core.NewRecord(col)
			record.Set("email", row.Email)
			record.Set("name", row.Name)
			record.Set("status", subscriberStatusOn)
			record.Set("source", source)
			if len(row.Tags) > 0 {
				record.Set("tags", row.Tags)
			}

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ValidationError{
					Row:     row.Row,
					Field:   "email",
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", row.Row, err)
			}
			created++
		}
		return nil
	})

	if err != nil {
		log.Printf("subscriber_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ValidationError{
				Row:     rows[0].Row,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
		return 0, skipped, chunkErrors
	}
	return created, skipped, nil
}

// GenerateErrorReport lists the rejected rows of a subscriber upload as an
// xlsx sheet: file row, the email as read, and the reason.
func GenerateErrorReport(rejected []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rejectedSheet); err != nil {
		return nil, fmt.Errorf("name report sheet: %w", err)
	}
	headStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FDE2E1"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("report style: %w", err)
	}

	head := []any{"File row", "Email", "Why it was rejected"}
	if err := f.SetSheetRow(rejectedSheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("report header: %w", err)
	}
	f.SetCellStyle(rejectedSheet, "A1", "C1", headStyle)
	f.SetColWidth(rejectedSheet, "A", "A", 10)
	f.SetColWidth(rejectedSheet, "B", "B", 34)
	f.SetColWidth(rejectedSheet, "C", "C", 50)
	f.SetPanes(rejectedSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, e := range rejected {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		line := []any{e.Row, sanitizeExcelCell(e.Email), sanitizeExcelCell(e.Message)}
		if err := f.SetSheetRow(rejectedSheet, cell, &line); err != nil {
			return nil, fmt.Errorf("report row %d: %w", e.Row, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
