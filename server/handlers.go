package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/fallback"
	"github.com/spektr-org/ratelens/ingest"
)

// uploadPhrases are whole messages that ask how to upload.
var uploadPhrases = map[string]bool{
	"upload a file":           true,
	"upload file":             true,
	"upload":                  true,
	"i want to upload a file": true,
}

const uploadHint = "Please click the paperclip icon below to upload your CSV or Excel file for analysis."

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response      string                 `json:"response"`
	Visualization *engine.ChartDirective `json:"visualization,omitempty"`
}

// ============================================================================
// POST /chat
// ============================================================================

func (s *Server) chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request body must be JSON with a \"message\" field.")
			return
		}

		if uploadPhrases[strings.ToLower(strings.TrimSpace(req.Message))] {
			writeJSON(w, http.StatusOK, chatResponse{Response: uploadHint})
			return
		}

		// One snapshot per request; a concurrent upload cannot change it.
		ds := s.store.Current()
		if ds != nil {
			a := s.router.Answer(ds, req.Message)
			s.log.Debug("💬 chat answered",
				zap.String("kind", string(a.Kind)),
				zap.Stringer("intent", a.Intent),
			)
			if a.Handled() {
				writeJSON(w, http.StatusOK, chatResponse{Response: a.Text, Visualization: a.Chart})
				return
			}
		}

		writeJSON(w, http.StatusOK, chatResponse{Response: s.delegate(r, req.Message, ds)})
	}
}

// delegate answers a question the rules did not recognize.
func (s *Server) delegate(r *http.Request, question string, ds *engine.Dataset) string {
	if s.responder == nil {
		return fallback.Canned
	}
	var summary *engine.Summary
	if ds != nil {
		sum := ds.Summary()
		summary = &sum
	}
	text, err := s.responder.Respond(r.Context(), question, summary)
	if err != nil {
		s.log.Warn("⚠️ fallback failed", zap.Error(err))
		return "Sorry, I couldn't reach the language model to answer that. Try asking about rates in your data."
	}
	return text
}

// ============================================================================
// POST /upload
// ============================================================================

type uploadResponse struct {
	Success   string         `json:"success"`
	Summary   engine.Summary `json:"summary"`
	DatasetID string         `json:"datasetId"`
	Missing   []string       `json:"missingColumns,omitempty"`
}

func (s *Server) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "File is too large.")
				return
			}
			writeError(w, http.StatusBadRequest, "No file part")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file part")
			return
		}
		defer file.Close()

		name := filepath.Base(header.Filename)
		if name == "" || name == "." || name == string(filepath.Separator) {
			writeError(w, http.StatusBadRequest, "No selected file")
			return
		}
		if !ingest.Supported(name) {
			writeError(w, http.StatusBadRequest, "Invalid file format. Please upload a CSV or XLSX file.")
			return
		}

		path, err := s.save(name, file)
		if err != nil {
			s.log.Error("❌ upload save failed", zap.String("file", name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Could not store the uploaded file.")
			return
		}

		ds, err := s.loader.LoadFile(path)
		if err != nil {
			s.log.Warn("⚠️ upload rejected", zap.String("file", name), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, "Error analyzing file: "+eris.Cause(err).Error())
			return
		}
		s.store.Swap(ds)

		writeJSON(w, http.StatusOK, uploadResponse{
			Success:   "File uploaded and analyzed successfully",
			Summary:   ds.Summary(),
			DatasetID: ds.ID.String(),
			Missing:   ds.Columns().Missing(),
		})
	}
}

func (s *Server) save(name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", eris.Wrap(err, "server: create upload dir")
	}
	path := filepath.Join(s.cfg.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "server: create upload file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", eris.Wrap(err, "server: write upload file")
	}
	return path, nil
}

// ============================================================================
// POST /chart, GET /summary
// ============================================================================

func (s *Server) chart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d engine.ChartDirective
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeError(w, http.StatusBadRequest, "Request body must be a chart directive.")
			return
		}

		cfg, err := engine.BuildChart(s.store.Current(), d)
		switch {
		case eris.Is(err, engine.ErrUnknownChart):
			writeError(w, http.StatusBadRequest, "Unknown chart type: "+string(d.Type))
		case eris.Is(err, engine.ErrNotEnoughData):
			writeError(w, http.StatusUnprocessableEntity, "Not enough data to draw that chart.")
		case err != nil:
			s.log.Error("❌ chart failed", zap.String("type", string(d.Type)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Chart could not be built.")
		default:
			writeJSON(w, http.StatusOK, cfg)
		}
	}
}

type summaryResponse struct {
	engine.Summary
	DatasetID string   `json:"datasetId"`
	Source    string   `json:"source"`
	Missing   []string `json:"missingColumns,omitempty"`
}

func (s *Server) summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := s.store.Current()
		if ds == nil {
			writeError(w, http.StatusNotFound, "No data uploaded yet.")
			return
		}
		writeJSON(w, http.StatusOK, summaryResponse{
			Summary:   ds.Summary(),
			DatasetID: ds.ID.String(),
			Source:    ds.Source,
			Missing:   ds.Columns().Missing(),
		})
	}
}
