package testserver

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/pverbeek/ganttvoice/internal/analyze"
	"github.com/pverbeek/ganttvoice/internal/domain/session"
	"github.com/pverbeek/ganttvoice/internal/ingest"
	"github.com/pverbeek/ganttvoice/internal/transport"
	"github.com/pverbeek/ganttvoice/internal/workbook"
	"github.com/stretchr/testify/require"
)

// TestServer runs the full HTTP stack against a fake transcriber.
type TestServer struct {
	Server      *httptest.Server
	Sessions    *session.Store
	Transcriber *FakeTranscriber
}

// FakeTranscriber stands in for the external transcription provider.
type FakeTranscriber struct {
	Transcript string
	Err        error
	HasKey     bool
}

func (f *FakeTranscriber) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	return f.Transcript, f.Err
}

func (f *FakeTranscriber) Configured() bool { return f.HasKey }

// New builds the wired service stack behind an httptest server.
func New(t *testing.T) *TestServer {
	t.Helper()

	ingestSvc, err := ingest.NewService(ingest.DefaultLayout(), nil)
	require.NoError(t, err)

	sessions := session.NewStore(nil)
	transcriber := &FakeTranscriber{HasKey: true}

	router := transport.NewServer(transport.Services{
		Ingest:      ingestSvc,
		Analyzer:    analyze.NewService(nil),
		Patcher:     workbook.NewPatcher(nil),
		Sessions:    sessions,
		Transcriber: transcriber,
	}, transport.Options{AllowedOrigins: []string{"*"}})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:      server,
		Sessions:    sessions,
		Transcriber: transcriber,
	}
}
