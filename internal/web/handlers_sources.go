package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/JonMunkholm/pisearch/internal/logging"
	"github.com/JonMunkholm/pisearch/internal/web/templates"
)

// multipartMemory is how much of an upload is buffered in memory before
// parts spill to temporary files.
const multipartMemory = 32 << 20

// UploadResponse is the JSON answer to an upload.
type UploadResponse struct {
	*core.UploadReport
	FailureMessages []string       `json:"failure_messages,omitempty"`
	Error           *ErrorResponse `json:"error,omitempty"`
}

// handleUploadSources ingests the uploaded files into the session workspace.
// A multi-source upload where every file fails still answers with the
// per-file failures, under 422.
func (s *Server) handleUploadSources(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Upload.MaxRequestBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, formError(err, limit))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := UploadForm{Mode: strings.ToLower(strings.TrimSpace(r.FormValue("mode")))}
	if err := validateRequest(form); err != nil {
		s.respondError(w, r, err)
		return
	}

	sources, err := readSources(r.MultipartForm.File["files"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	log := logging.WithFields(r.Context(), "files", len(sources), "mode", form.Mode)
	log.Debug("upload started")

	report, err := s.service.Upload(r.Context(), sessionID(r), sources, core.Mode(form.Mode))
	if err != nil && (report == nil || !errors.Is(err, core.ErrNothingLoaded)) {
		s.respondError(w, r, err)
		return
	}
	log.Info("upload finished", "rows", report.Rows, "failures", len(report.Failures))

	messages := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		messages = append(messages, core.FormatFailure(f))
	}

	status := http.StatusOK
	var errResp *ErrorResponse
	if err != nil {
		status = http.StatusUnprocessableEntity
		ue := core.NewUserError(err)
		errResp = &ErrorResponse{Error: ue.Error(), Message: ue.User.Message, Action: ue.User.Action, Code: ue.User.Code}
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if errResp != nil {
			templates.ErrorAlert(errResp.Message, errResp.Action, errResp.Code).Render(r.Context(), w)
		}
		templates.UploadSummary(uploadView(report, messages)).Render(r.Context(), w)
		if ws, wsErr := s.service.Workspace(sessionID(r)); wsErr == nil {
			templates.Filters(filterView(ws), true).Render(r.Context(), w)
		}
		return
	}

	writeJSON(w, status, UploadResponse{
		UploadReport:    report,
		FailureMessages: messages,
		Error:           errResp,
	})
}

// formError classifies a multipart parse failure. An oversize body is
// reported as *http.MaxBytesError even when the multipart reader hid it.
func formError(err error, limit int64) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	if strings.Contains(err.Error(), "request body too large") {
		return &http.MaxBytesError{Limit: limit}
	}
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}

// readSources loads every uploaded file into memory. Reads stop one byte
// past core.MaxFileSize so the engine still reports the file as too large.
func readSources(files []*multipart.FileHeader) ([]core.Source, error) {
	sources := make([]core.Source, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, core.MaxFileSize+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		sources = append(sources, core.Source{Name: fh.Filename, Data: data})
	}
	return sources, nil
}

func uploadView(report *core.UploadReport, failures []string) templates.UploadView {
	names := make([]string, len(report.Sources))
	for i, src := range report.Sources {
		names[i] = src.Name
	}
	return templates.UploadView{
		Mode:     string(report.Mode),
		Rows:     report.Rows,
		Sources:  names,
		Failures: failures,
		Category: report.Roles.Category,
		Interest: report.Roles.Interest,
	}
}
