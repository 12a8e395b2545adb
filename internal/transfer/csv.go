// Package transfer moves log entries in and out of the system as delimited
// text files: export writes the rows currently displayed, import feeds
// rows through the normal create path.
package transfer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"

	_ "embed"

	"github.com/qri-io/jsonschema"

	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

//go:embed entry_schema.json
var entrySchemaJSON []byte

// ErrNoRows is returned by Export when there is nothing to write.
var ErrNoRows = errors.New("no rows to export")

// requiredColumns must all be present (case-insensitively) in an import
// header for the file to be accepted.
var requiredColumns = []string{"jobnum", "vin", "technician", "description", "date"}

// Report summarizes an import run. Rows already committed stay committed
// even when later rows fail.
type Report struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Transfer performs CSV import and export against the entry service.
type Transfer struct {
	svc    *worklog.Service
	schema *jsonschema.Schema
	logger *slog.Logger
}

func New(svc *worklog.Service, logger *slog.Logger) (*Transfer, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(entrySchemaJSON, rs); err != nil {
		return nil, fmt.Errorf("compile entry schema: %w", err)
	}
	return &Transfer{svc: svc, schema: rs, logger: logger}, nil
}

// Export writes rows to w as UTF-8 CSV with a title-case header matching
// the display columns. The rows are whatever the projection currently
// shows, post filter and sort, not the full store.
func (t *Transfer) Export(rows []models.LogEntry, w io.Writer) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(worklog.Columns))
	for i, c := range worklog.Columns {
		header[i] = titleCase(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	for _, e := range rows {
		rec := []string{e.ID, e.JobNum, e.VIN, e.Technician, e.Status, e.Description, e.Date}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Import reads a CSV file with a header row and inserts every conforming
// row through the service's create path, upserting the technician first.
// The header must contain the five required columns case-insensitively in
// any order. Rows that fail the shape check or collide on job number are
// skipped and counted, never fatal.
func (t *Transfer) Import(ctx context.Context, r io.Reader) (Report, error) {
	var rep Report

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return rep, fmt.Errorf("import: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return rep, fmt.Errorf("import: header missing column %q", c)
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rep, fmt.Errorf("import: %w", err)
		}

		e, ok := rowToEntry(rec, cols)
		if !ok || !t.rowValid(ctx, e) {
			rep.Skipped++
			continue
		}

		if _, err := t.svc.UpsertTechnician(ctx, e.Technician); err != nil {
			return rep, fmt.Errorf("import: upsert technician: %w", err)
		}

		if _, err := t.svc.CreateEntry(ctx, e); err != nil {
			var verr *worklog.ValidationError
			switch {
			case errors.Is(err, repository.ErrDuplicateJobNum), errors.As(err, &verr):
				rep.Skipped++
				continue
			default:
				return rep, fmt.Errorf("import: %w", err)
			}
		}
		rep.Added++
	}

	t.logger.Info("import finished", slog.Int("added", rep.Added), slog.Int("skipped", rep.Skipped))
	return rep, nil
}

// rowToEntry maps a record into an entry using the header positions.
func rowToEntry(rec []string, cols map[string]int) (models.LogEntry, bool) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	var e models.LogEntry
	var ok bool
	if e.JobNum, ok = get("jobnum"); !ok {
		return e, false
	}
	if e.VIN, ok = get("vin"); !ok {
		return e, false
	}
	if e.Technician, ok = get("technician"); !ok {
		return e, false
	}
	if e.Description, ok = get("description"); !ok {
		return e, false
	}
	if e.Date, ok = get("date"); !ok {
		return e, false
	}
	if s, ok := get("status"); ok {
		e.Status = s
	}
	return e, true
}

// rowValid checks the row shape against the embedded JSON Schema before it
// reaches the create path.
func (t *Transfer) rowValid(ctx context.Context, e models.LogEntry) bool {
	doc, err := json.Marshal(e)
	if err != nil {
		return false
	}
	errs, err := t.schema.ValidateBytes(ctx, doc)
	if err != nil {
		return false
	}
	return len(errs) == 0
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
