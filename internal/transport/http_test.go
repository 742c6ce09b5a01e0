package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pverbeek/ganttvoice/internal/analyze"
	"github.com/pverbeek/ganttvoice/internal/domain/session"
	"github.com/pverbeek/ganttvoice/internal/ingest"
	"github.com/pverbeek/ganttvoice/internal/transcribe"
	"github.com/pverbeek/ganttvoice/internal/transport"
	"github.com/pverbeek/ganttvoice/internal/workbook"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubTranscriber struct {
	transcript string
	err        error
	configured bool
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	return s.transcript, s.err
}

func (s *stubTranscriber) Configured() bool { return s.configured }

func newTestServer(t *testing.T, tr transcribe.Transcriber) *httptest.Server {
	t.Helper()

	ingestSvc, err := ingest.NewService(ingest.DefaultLayout(), nil)
	require.NoError(t, err)

	router := transport.NewServer(transport.Services{
		Ingest:      ingestSvc,
		Analyzer:    analyze.NewService(nil),
		Patcher:     workbook.NewPatcher(nil),
		Sessions:    session.NewStore(nil),
		Transcriber: tr,
	}, transport.Options{AllowedOrigins: []string{"*"}})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func fixtureXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A9", "1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B9", "Foundation"))
	require.NoError(t, f.SetCellValue("Sheet1", "A10", "1.1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B10", "Piling"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postMultipart(t *testing.T, url, field, filename string, content []byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	resp, err := http.Post(url, contentType, body)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestProbes(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	root := decodeBody[map[string]string](t, resp)
	require.Equal(t, "Project Gantt Chart Manager API", root["message"])

	resp, err = http.Get(srv.URL + "/transcriber-test")
	require.NoError(t, err)
	status := decodeBody[map[string]any](t, resp)
	require.Equal(t, false, status["openai_configured"])

	resp, err = http.Get(srv.URL + "/dutch-test")
	require.NoError(t, err)
	dutch := decodeBody[map[string]any](t, resp)
	require.Equal(t, false, dutch["dutch_support"])
}

func TestUploadExcel(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp := postMultipart(t, srv.URL+"/upload-excel", "file", "plan.xlsx", fixtureXLSX(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	upload := decodeBody[transport.UploadResponse](t, resp)
	require.Equal(t, "plan.xlsx", upload.Filename)
	require.Equal(t, 10, upload.TotalRows)
	require.Len(t, upload.Projects, 2)
	require.Equal(t, "Foundation", upload.Projects[0].Name)
	require.True(t, upload.Projects[0].IsTitle)
	require.Equal(t, "Piling", upload.Projects[1].Name)
}

func TestUploadExcel_BadExtension(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp := postMultipart(t, srv.URL+"/upload-excel", "file", "plan.csv", []byte("a,b"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadExcel_Unparseable(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp := postMultipart(t, srv.URL+"/upload-excel", "file", "plan.xlsx", []byte("not a workbook"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDownloadExcel_NoUpload(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp, err := http.Get(srv.URL + "/download-excel")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateExcel_NoUpload(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp, err := http.Post(srv.URL+"/update-excel", "application/json",
		bytes.NewBufferString(`[{"project_name":"Foundation","new_start_date":"2025-05-01","new_end_date":"2025-06-01"}]`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateExcel_InvalidPayload(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp, err := http.Post(srv.URL+"/update-excel", "application/json",
		bytes.NewBufferString(`[{"new_start_date":"2025-05-01"}]`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndDownloadFlow(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{})

	resp := postMultipart(t, srv.URL+"/upload-excel", "file", "plan.xlsx", fixtureXLSX(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Post(srv.URL+"/update-excel", "application/json",
		bytes.NewBufferString(`[
			{"project_name":"Foundation","new_start_date":"2025-05-01","new_end_date":"2025-06-01"},
			{"project_name":"Piling","new_start_date":"not-a-date","new_end_date":"2025-06-01"}
		]`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeBody[transport.UpdateResponse](t, resp)
	require.Equal(t, 1, updated.UpdatesApplied)

	resp, err = http.Get(srv.URL + "/download-excel")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	start, err := f.GetCellValue("Sheet1", "C9")
	require.NoError(t, err)
	require.Equal(t, "2025-05-01", start)
}

func TestProcessAudio_BadExtension(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{configured: true})

	resp := postMultipart(t, srv.URL+"/process-audio", "audio_file", "notes.txt", []byte("x"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessAudio_NoCredential(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{configured: false})

	resp := postMultipart(t, srv.URL+"/process-audio", "audio_file", "meeting.webm", []byte("x"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	audio := decodeBody[transport.AudioResponse](t, resp)
	require.Equal(t, transcribe.NoCredentialTranscript, audio.Transcript)
	require.Equal(t, transcribe.NoCredentialSummary, audio.Summary)
	require.Empty(t, audio.TaskProposals)
	require.Empty(t, audio.ProjectUpdates)
}

func TestProcessAudio_ProviderFailure(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{configured: true, err: errors.New("provider down")})

	resp := postMultipart(t, srv.URL+"/process-audio", "audio_file", "meeting.mp3", []byte("x"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	audio := decodeBody[transport.AudioResponse](t, resp)
	require.Equal(t, transcribe.FallbackTranscript, audio.Transcript)
	require.NotEmpty(t, audio.Summary)
}

func TestProcessAudio_ProposalsAgainstUpload(t *testing.T) {
	srv := newTestServer(t, &stubTranscriber{
		configured: true,
		transcript: "De Foundation is klaar en Piling is 50% complete",
	})

	resp := postMultipart(t, srv.URL+"/upload-excel", "file", "plan.xlsx", fixtureXLSX(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postMultipart(t, srv.URL+"/process-audio", "audio_file", "meeting.webm", []byte("x"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	audio := decodeBody[transport.AudioResponse](t, resp)
	require.Equal(t, "De Foundation is klaar en Piling is 50% complete", audio.Transcript)
	require.Len(t, audio.TaskProposals, 2)
	require.Equal(t, analyze.StatusCompleted, audio.TaskProposals[0].ProposedStatus)
	require.Len(t, audio.ProjectUpdates, 1)
	require.Equal(t, "Piling", audio.ProjectUpdates[0].ProjectName)
	require.Contains(t, audio.Summary, "Meeting Summary:")
}
