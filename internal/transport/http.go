package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pverbeek/ganttvoice/internal/analyze"
	"github.com/pverbeek/ganttvoice/internal/domain/activity"
	"github.com/pverbeek/ganttvoice/internal/domain/session"
	"github.com/pverbeek/ganttvoice/internal/domain/update"
	"github.com/pverbeek/ganttvoice/internal/ingest"
	"github.com/pverbeek/ganttvoice/internal/transcribe"
	"github.com/pverbeek/ganttvoice/internal/workbook"
)

var (
	spreadsheetExts = []string{".xlsx", ".xls"}
	audioExts       = []string{".wav", ".mp3", ".m4a", ".webm", ".ogg"}
)

const maxUploadBytes = 50 << 20

// Services bundles everything the HTTP layer dispatches into.
type Services struct {
	Ingest      *ingest.Service
	Analyzer    *analyze.Service
	Patcher     *workbook.Patcher
	Sessions    *session.Store
	Transcriber transcribe.Transcriber
}

// Options configures the HTTP router.
type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// UploadResponse is the payload of /upload-excel.
type UploadResponse struct {
	Message   string            `json:"message"`
	Filename  string            `json:"filename"`
	Projects  []activity.Record `json:"projects"`
	TotalRows int               `json:"total_rows"`
}

// AudioResponse is the payload of /process-audio.
type AudioResponse struct {
	Transcript     string                 `json:"transcript"`
	Summary        string                 `json:"summary"`
	TaskProposals  []analyze.TaskProposal `json:"taskProposals"`
	ProjectUpdates []update.ProjectUpdate `json:"project_updates"`
}

// UpdateResponse is the payload of /update-excel.
type UpdateResponse struct {
	Message        string `json:"message"`
	UpdatesApplied int    `json:"updates_applied"`
}

// NewServer creates the HTTP router with CORS and request logging.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(RequestLogger(logger))

	srv := &Server{svc: svc, logger: logger}

	r.Get("/", srv.handleRoot)
	r.Get("/health", srv.handleHealth)
	r.Get("/cors-test", srv.handleCORSTest)
	r.Get("/transcriber-test", srv.handleTranscriberTest)
	r.Get("/dutch-test", srv.handleDutchTest)
	r.Post("/upload-excel", srv.handleUploadExcel)
	r.Post("/process-audio", srv.handleProcessAudio)
	r.Post("/update-excel", srv.handleUpdateExcel)
	r.Get("/download-excel", srv.handleDownloadExcel)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project Gantt Chart Manager API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCORSTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "CORS test successful",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleTranscriberTest(w http.ResponseWriter, _ *http.Request) {
	if !s.svc.Transcriber.Configured() {
		writeJSON(w, http.StatusOK, map[string]any{
			"openai_configured": false,
			"message":           "OpenAI API key not found in environment variables",
		})
		return
	}

	preview := ""
	if kp, ok := s.svc.Transcriber.(interface{ KeyPreview() string }); ok {
		preview = kp.KeyPreview()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"openai_configured": true,
		"message":           "OpenAI API key is configured",
		"key_preview":       preview,
	})
}

func (s *Server) handleDutchTest(w http.ResponseWriter, _ *http.Request) {
	if !s.svc.Transcriber.Configured() {
		writeJSON(w, http.StatusOK, map[string]any{
			"dutch_support": false,
			"message":       "OpenAI API key not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dutch_support": true,
		"message":       "Dutch language processing is configured",
		"test_phrase":   "Dit is een test van de Nederlandse taalverwerking.",
	})
}

func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if !hasExtension(header.Filename, spreadsheetExts) {
		writeError(w, http.StatusBadRequest, "File must be an Excel file")
		return
	}

	tmp, err := os.CreateTemp("", "ganttvoice-*.xlsx")
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing Excel file: %v", err))
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing Excel file: %v", err))
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing Excel file: %v", err))
		return
	}

	records, totalRows, err := s.svc.Ingest.ParseWorkbook(tmp.Name())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing Excel file: %v", err))
		return
	}

	s.svc.Sessions.Replace(header.Filename, tmp.Name(), records, totalRows)

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:   "Excel file uploaded successfully",
		Filename:  header.Filename,
		Projects:  records,
		TotalRows: totalRows,
	})
}

func (s *Server) handleProcessAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio upload")
		return
	}
	defer file.Close()

	if !hasExtension(header.Filename, audioExts) {
		writeError(w, http.StatusBadRequest, "Audio file must be one of: "+strings.Join(audioExts, ", "))
		return
	}

	// No credential is a degraded success, not an error: the voice-note
	// feature reports itself unavailable instead of failing the request.
	if !s.svc.Transcriber.Configured() {
		writeJSON(w, http.StatusOK, AudioResponse{
			Transcript:     transcribe.NoCredentialTranscript,
			Summary:        transcribe.NoCredentialSummary,
			TaskProposals:  []analyze.TaskProposal{},
			ProjectUpdates: []update.ProjectUpdate{},
		})
		return
	}

	transcript, err := s.svc.Transcriber.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		s.logger.Warn("transcription failed, continuing with fallback transcript", "error", err)
	}
	transcript = transcribe.Degrade(transcript, err)

	activities := s.svc.Sessions.Activities()
	writeJSON(w, http.StatusOK, AudioResponse{
		Transcript:     transcript,
		Summary:        s.svc.Analyzer.GenerateSummary(transcript),
		TaskProposals:  s.svc.Analyzer.GenerateProposals(transcript, activities),
		ProjectUpdates: s.svc.Analyzer.ExtractUpdates(transcript),
	})
}

func (s *Server) handleUpdateExcel(w http.ResponseWriter, r *http.Request) {
	var updates []update.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := update.ValidateBatch(updates); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var applied int
	err := s.svc.Sessions.WithWorkbook(func(path string) error {
		n, err := s.svc.Patcher.Apply(path, updates)
		applied = n
		return err
	})
	if errors.Is(err, session.ErrNoWorkbook) {
		writeError(w, http.StatusBadRequest, "No Excel file uploaded")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error updating Excel file: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, UpdateResponse{
		Message:        "Excel file updated successfully",
		UpdatesApplied: applied,
	})
}

func (s *Server) handleDownloadExcel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.svc.Sessions.Current()
	if !ok {
		writeError(w, http.StatusBadRequest, "No Excel file available")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="updated_gantt_chart.xlsx"`)
	http.ServeFile(w, r, sess.WorkbookPath)
}

func hasExtension(filename string, exts []string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
