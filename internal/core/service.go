package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTooManyFiles is returned when one upload carries more than MaxFiles sources.
	ErrTooManyFiles = errors.New("too many files")

	// ErrNothingLoaded reports a multi-source upload where every source failed.
	ErrNothingLoaded = errors.New("no source could be read")
)

// ServiceConfig holds the ingestion limits of a Service.
type ServiceConfig struct {
	MaxFiles      int
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	DefaultMode   Mode
}

// Service ties ingestion, querying and baskets to sessions.
type Service struct {
	sessions   *SessionStore
	classifier *Classifier
	limiter    *IngestLimiter
	cfg        ServiceConfig
}

// NewService creates a Service. A nil classifier uses DefaultRules.
func NewService(sessions *SessionStore, classifier *Classifier, cfg ServiceConfig) *Service {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = ModeAuto
	}
	return &Service{
		sessions:   sessions,
		classifier: classifier,
		limiter:    NewIngestLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		cfg:        cfg,
	}
}

// Sessions returns the session store.
func (s *Service) Sessions() *SessionStore { return s.sessions }

// Limiter returns the ingest limiter for health reporting.
func (s *Service) Limiter() *IngestLimiter { return s.limiter }

// Classifier returns the active classifier.
func (s *Service) Classifier() *Classifier { return s.classifier }

// Shutdown waits for running ingestion passes to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UploadReport summarizes one ingestion pass.
type UploadReport struct {
	Mode     Mode            `json:"mode"`
	Rows     int             `json:"rows"`
	Columns  []string        `json:"columns"`
	Roles    Roles           `json:"roles"`
	Sources  []SourceSummary `json:"sources"`
	Failures []SourceFailure `json:"failures"`
}

func reportFor(ws *Workspace) *UploadReport {
	return &UploadReport{
		Mode:     ws.Mode,
		Rows:     ws.Table.Len(),
		Columns:  append([]string(nil), ws.Table.Columns...),
		Roles:    ws.Roles,
		Sources:  ws.Sources,
		Failures: ws.Failures,
	}
}

// Upload ingests sources into the session's workspace. On error the previous
// workspace and the basket are left as they were. A multi-source upload where
// every source fails still replaces the workspace and returns the report
// along with ErrNothingLoaded.
func (s *Service) Upload(ctx context.Context, sessionID string, sources []Source, mode Mode) (*UploadReport, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if s.cfg.MaxFiles > 0 && len(sources) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyFiles, len(sources), s.cfg.MaxFiles)
	}
	if mode == "" {
		mode = s.cfg.DefaultMode
	}

	var ws *Workspace
	err = s.limiter.Do(ctx, func(ctx context.Context) error {
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}
		var ingestErr error
		ws, ingestErr = Ingest(ctx, sources, mode, s.classifier)
		return ingestErr
	})
	if err != nil {
		return nil, err
	}

	sess.SetWorkspace(ws)

	logger := LoggerFromContext(ctx)
	if SessionIDFromContext(ctx) == "" {
		logger = logger.With("session", sessionID)
	}
	logger.Info("workspace loaded",
		"mode", ws.Mode,
		"sources", len(ws.Sources),
		"failures", len(ws.Failures),
		"rows", ws.Table.Len(),
	)

	report := reportFor(ws)
	if len(ws.Sources) == 0 {
		return report, ErrNothingLoaded
	}
	return report, nil
}

// Workspace returns the session's current workspace.
func (s *Service) Workspace(sessionID string) (*Workspace, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Workspace()
}

// Query evaluates q against the session's workspace.
func (s *Service) Query(sessionID string, q Query) (Table, error) {
	ws, err := s.Workspace(sessionID)
	if err != nil {
		return Table{}, err
	}
	return ws.Query(q), nil
}

// OverrideRoles replaces the classified roles of the session's workspace.
func (s *Service) OverrideRoles(sessionID string, roles Roles) (*Workspace, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	ws, err := sess.Workspace()
	if err != nil {
		return nil, err
	}
	updated, err := ws.WithRoles(roles)
	if err != nil {
		return nil, err
	}
	sess.SetWorkspace(updated)
	return updated, nil
}

// AddToBasket evaluates q and adds the results to the session's basket.
// Returns the rows matched, the rows actually added, and the new basket size.
func (s *Service) AddToBasket(sessionID string, q Query) (matched, added, size int, err error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return 0, 0, 0, err
	}
	ws, err := sess.Workspace()
	if err != nil {
		return 0, 0, 0, err
	}
	rs := ws.Query(q)
	added = sess.Basket.Add(rs)
	return rs.Len(), added, sess.Basket.Size(), nil
}

// Basket returns a copy of the session's basket.
func (s *Service) Basket(sessionID string) (Table, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Table{}, err
	}
	return sess.Basket.Contents(), nil
}

// ResetBasket empties the session's basket.
func (s *Service) ResetBasket(sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	sess.Basket.Reset()
	return nil
}

// ExportBasket renders the session's basket as a workbook. The file name
// follows the mode of the current workspace.
func (s *Service) ExportBasket(sessionID string) (Artifact, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Artifact{}, err
	}
	mode := ModeSingle
	if ws, err := sess.Workspace(); err == nil {
		mode = ws.Mode
	}
	return Export(sess.Basket.Contents(), mode)
}
