package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrigankrai05/VitalSimple/models"
	"github.com/mrigankrai05/VitalSimple/services"
)

// stubReportService lets handler tests script the service layer.
type stubReportService struct {
	analyzeResp *models.AnalyzeResponse
	analyzeErr  error
	chatResp    json.RawMessage
	chatErr     error
	chatCalls   int
}

func (s *stubReportService) Analyze(ctx context.Context, document []byte) (*models.AnalyzeResponse, error) {
	return s.analyzeResp, s.analyzeErr
}

func (s *stubReportService) Chat(ctx context.Context, req models.ChatRequest) (json.RawMessage, error) {
	s.chatCalls++
	return s.chatResp, s.chatErr
}

func newTestRouter(svc services.ReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	c := NewReportController(svc)
	router.POST("/analyze", c.AnalyzeReport)
	router.POST("/chat", c.ChatWithReport)
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAnalyzeReturnsSessionAndParseableAnalysis(t *testing.T) {
	stub := &stubReportService{
		analyzeResp: &models.AnalyzeResponse{
			SessionID: "abc-123",
			Analysis:  `{"summary":"ok","risk_areas":[],"moderate_areas":[],"healthy_areas":[],"all_metrics":[]}`,
		},
	}
	router := newTestRouter(stub)

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.SessionID)
	assert.True(t, json.Valid([]byte(resp.Analysis)), "analysis must always be valid JSON")
}

func TestAnalyzeWithoutFileIsBadRequest(t *testing.T) {
	router := newTestRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("no multipart here"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatUnknownSessionIs404(t *testing.T) {
	stub := &stubReportService{chatErr: services.ErrSessionNotFound}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"session_id":"nope","query":"hemoglobin?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Session not found", body["detail"])
}

func TestChatPassesModelReplyThrough(t *testing.T) {
	stub := &stubReportService{chatResp: json.RawMessage(`{"answer":"x","visualization":null}`)}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"session_id":"abc","query":"hemoglobin?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"x","visualization":null}`, w.Body.String())
	assert.Equal(t, 1, stub.chatCalls)
}

func TestChatRejectsIncompleteBody(t *testing.T) {
	stub := &stubReportService{}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"session_id":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, stub.chatCalls, "invalid requests must not reach the service")
}
