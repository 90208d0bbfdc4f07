package core

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoSources is returned when an upload carries no files.
	ErrNoSources = errors.New("no files uploaded")

	// ErrSingleSourceOnly is returned when single-source mode receives several files.
	ErrSingleSourceOnly = errors.New("single-source mode accepts exactly one file")

	// ErrUnknownColumn is returned when a role override names a missing column.
	ErrUnknownColumn = errors.New("column not found in workspace")
)

// Workspace is the consolidated, classified result of one ingestion pass.
type Workspace struct {
	Mode     Mode
	Table    Table
	Roles    Roles
	Sources  []SourceSummary
	Failures []SourceFailure
}

// Ingest reads, normalizes, consolidates and classifies sources.
//
// In single-source mode any failure aborts the pass and is returned as a
// *SourceError. In multi-source mode each row is tagged with its source name
// and failing sources are recorded in Failures while the rest still load.
// Sources are processed sequentially in the order given.
func Ingest(ctx context.Context, sources []Source, mode Mode, classifier *Classifier) (*Workspace, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}

	if mode == ModeSingle && len(sources) > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrSingleSourceOnly, len(sources))
	}
	mode = mode.Resolve(len(sources))

	logger := LoggerFromContext(ctx)
	ws := &Workspace{Mode: mode}
	tables := make([]Table, 0, len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := ReadSource(ctx, src)
		if err != nil {
			if mode == ModeSingle {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			ws.Failures = append(ws.Failures, failureFor(src.Name, err))
			logger.Warn("source skipped", "source", src.Name, "error", err)
			continue
		}

		origin := ""
		if mode == ModeMulti {
			origin = src.Name
		}
		t := Normalize(raw, origin)

		tables = append(tables, t)
		ws.Sources = append(ws.Sources, SourceSummary{
			Name:    src.Name,
			Format:  src.Format(),
			Rows:    t.Len(),
			Columns: len(t.Columns),
		})
	}

	ws.Table = Consolidate(tables...)
	ws.Roles = classifier.Classify(ws.Table.Columns)

	logger.Debug("ingest complete",
		"mode", mode,
		"sources", len(ws.Sources),
		"failures", len(ws.Failures),
		"rows", ws.Table.Len(),
		"columns", len(ws.Table.Columns),
		"category_column", ws.Roles.Category,
		"interest_column", ws.Roles.Interest,
	)

	return ws, nil
}

func failureFor(name string, err error) SourceFailure {
	f := SourceFailure{Name: name, Stage: StageRead, Error: err.Error()}
	var se *SourceError
	if errors.As(err, &se) {
		f.Stage = se.Stage
		f.Error = se.Err.Error()
	}
	return f
}

// Query evaluates q against the workspace table.
func (w *Workspace) Query(q Query) Table {
	return Evaluate(w.Table, w.Roles, q)
}

// CategoryOptions lists the category selector values.
func (w *Workspace) CategoryOptions() []string {
	return CategoryOptions(w.Table, w.Roles)
}

// OriginOptions lists the origin selector values. Single-source workspaces
// have no origin tags and return only the sentinel.
func (w *Workspace) OriginOptions() []string {
	return OriginOptions(w.Table)
}

// WithRoles returns a copy of the workspace using roles instead of the
// classified ones. Each non-empty name must be a workspace column.
func (w *Workspace) WithRoles(roles Roles) (*Workspace, error) {
	for _, col := range []string{roles.Category, roles.Interest} {
		if col != "" && !w.Table.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	cp := *w
	cp.Roles = roles
	return &cp, nil
}
