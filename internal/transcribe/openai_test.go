package transcribe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pverbeek/ganttvoice/internal/transcribe"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Transcribe(t *testing.T) {
	var gotAuth, gotModel, gotLanguage, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		w.Write([]byte("De fundering is klaar.\n"))
	}))
	t.Cleanup(srv.Close)

	client := transcribe.NewOpenAIClient(transcribe.Options{
		APIKey:  "sk-test-1234567890",
		BaseURL: srv.URL,
	}, nil)
	require.True(t, client.Configured())

	transcript, err := client.Transcribe(context.Background(), "meeting.webm", strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	require.Equal(t, "De fundering is klaar.", transcript)
	require.Equal(t, "Bearer sk-test-1234567890", gotAuth)
	require.Equal(t, "whisper-1", gotModel)
	require.Equal(t, "nl", gotLanguage)
	require.Equal(t, "meeting.webm", gotFilename)
}

func TestOpenAIClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := transcribe.NewOpenAIClient(transcribe.Options{APIKey: "sk-test", BaseURL: srv.URL}, nil)

	_, err := client.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	require.Error(t, err)
}

func TestOpenAIClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := transcribe.NewOpenAIClient(transcribe.Options{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	}, nil)

	_, err := client.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	require.Error(t, err)
}

func TestOpenAIClient_NotConfigured(t *testing.T) {
	client := transcribe.NewOpenAIClient(transcribe.Options{}, nil)
	require.False(t, client.Configured())
	require.Equal(t, "Not set", client.KeyPreview())

	_, err := client.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	require.Error(t, err)
}

func TestDegrade(t *testing.T) {
	require.Equal(t, "prima", transcribe.Degrade("prima", nil))
	require.Equal(t, transcribe.FallbackTranscript, transcribe.Degrade("", nil))
	require.Equal(t, transcribe.FallbackTranscript, transcribe.Degrade("  \n", nil))
	require.Equal(t, transcribe.FallbackTranscript, transcribe.Degrade("whatever", errors.New("boom")))
	require.Equal(t, transcribe.FallbackTranscript, transcribe.Degrade("The audio was unclear to me", nil))
}
