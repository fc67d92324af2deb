package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pilot/internal/domain/entity"
	"page-pilot/internal/testsupport/domstub"
)

type sourceStub struct {
	html string
	shot []byte
}

func (s *sourceStub) Screenshot(context.Context) ([]byte, error) { return s.shot, nil }
func (s *sourceStub) HTML(context.Context) (string, error)       { return s.html, nil }

func newTestServer() (*Server, *sourceStub) {
	src := &sourceStub{
		html: `<body><div id="main">Hello</div><script>x()</script></body>`,
		shot: []byte{0xff, 0xd8, 0xff},
	}
	return NewServer(src, domstub.NewLogger()), src
}

func TestServer_StateBeforeAnyExtraction(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RecordedStateIsServed(t *testing.T) {
	s, _ := newTestServer()
	s.RecordPageState(&entity.PageState{
		URL: "https://example.test/form",
		InteractiveElements: []entity.ElementRecord{
			{Index: 0, Description: "Save", TagName: "button"},
		},
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got entity.PageState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "https://example.test/form", got.URL)
	require.Len(t, got.InteractiveElements, 1)
	assert.Equal(t, "Save", got.InteractiveElements[0].Description)
	// The compacted markup rides along with the snapshot.
	assert.Contains(t, got.CleanedHTML, `id="main"`)
	assert.NotContains(t, got.CleanedHTML, "<script")
}

func TestServer_HTMLEndpointCompacts(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="main"`)
	assert.NotContains(t, rec.Body.String(), "<script")
}

func TestServer_ScreenshotEndpoint(t *testing.T) {
	s, src := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/screenshot", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, src.shot, rec.Body.Bytes())
}
