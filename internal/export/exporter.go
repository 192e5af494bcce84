package export

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// dateLayout is the format of export date bounds and workday dates.
const dateLayout = "2006-01-02"

// Request describes one export invocation.
type Request struct {
	Projections []types.Projection
	From        string // First workday included, YYYY-MM-DD. Ignored by Preview.
	To          string // Last workday included, YYYY-MM-DD. Ignored by Preview.
	EntityID    int64  // Task rendered by Preview. Ignored by Export.
	Options     types.ExportOptions
}

// Exporter runs export requests against the store. It holds no per-export
// state; each call builds, fetches and renders from scratch.
type Exporter struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewExporter returns an Exporter reading from db.
func NewExporter(db Preparer, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{fetcher: NewFetcher(db), logger: logger}
}

// Export renders every active task whose workday falls within
// [req.From, req.To]. Either the whole text is returned or an error.
func (e *Exporter) Export(ctx context.Context, req Request) (string, error) {
	return e.run(ctx, ModeFull, req)
}

// Preview renders the single task req.EntityID, bounded by
// req.Options.PreviewLimit bytes.
func (e *Exporter) Preview(ctx context.Context, req Request) (string, error) {
	return e.run(ctx, ModePreview, req)
}

// Validate checks req for mode without touching the store.
func Validate(mode Mode, req Request) error {
	if len(req.Projections) == 0 {
		return types.ErrNoProjections
	}
	for _, p := range req.Projections {
		if !projectable(p.Column.SourceTable) {
			return fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, p.Column.SourceTable, p.Column.SourceColumn)
		}
	}
	if err := req.Options.Validate(); err != nil {
		return err
	}

	if mode == ModePreview {
		if req.EntityID <= 0 {
			return types.ErrMissingEntityID
		}
		return nil
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return fmt.Errorf("%w: from %q", types.ErrInvalidDate, req.From)
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return fmt.Errorf("%w: to %q", types.ErrInvalidDate, req.To)
	}
	if from.After(to) {
		return fmt.Errorf("%w: %s > %s", types.ErrInvalidDateRange, req.From, req.To)
	}
	return nil
}

func (e *Exporter) run(ctx context.Context, mode Mode, req Request) (string, error) {
	if err := Validate(mode, req); err != nil {
		return "", err
	}

	log := e.logger.With("export_id", newRunID(), "mode", mode.String())
	start := time.Now()

	scope := Scope{Mode: mode, From: req.From, To: req.To, EntityID: req.EntityID}
	mainQuery := BuildMainQuery(req.Projections, scope)
	log.Debug("built main query", "sql", mainQuery.SQL, "args", mainQuery.Args)

	rs, err := e.fetcher.FetchRows(ctx, mainQuery)
	if err != nil {
		log.Error("export failed", "stage", "fetch", "error", err)
		return "", err
	}

	if mode == ModePreview && rs.Len() > 1 {
		log.Warn("preview query returned more than one row, keeping the first", "rows", rs.Len())
		rs.Truncate(1)
	}

	ordered := sortedProjections(req.Projections)
	headers := make([]string, 0, len(ordered))
	for _, p := range ordered {
		headers = append(headers, p.Column.DisplayName)
	}

	var attributeCount int
	if req.Options.IncludeAttributes {
		names, err := e.fetcher.FetchAttributeNames(ctx, BuildAttributeNamesQuery(scope))
		if err != nil {
			log.Error("export failed", "stage", "attribute names", "error", err)
			return "", err
		}
		// Byte order, matching the BINARY collation the query sorts with.
		slices.Sort(names)
		names = slices.Compact(names)

		entries, err := e.fetcher.FetchAttributeEntries(ctx, BuildAttributeValuesQuery(scope))
		if err != nil {
			log.Error("export failed", "stage", "attribute values", "error", err)
			return "", err
		}

		Pivot(rs, names, entries)
		headers = append(headers, names...)
		attributeCount = len(names)
	}

	limit := 0
	if mode == ModePreview {
		limit = req.Options.PreviewLimit
	}
	out := Emit(headers, rs.Rows(), req.Options, limit)

	log.Info("export complete",
		"rows", rs.Len(),
		"columns", len(headers),
		"attributes", attributeCount,
		"bytes", len(out),
		"elapsed", time.Since(start),
	)
	return out, nil
}

// newRunID returns an id correlating the log records of one export.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
