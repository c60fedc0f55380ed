package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/logharbour/logharbour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []RequestInfo
}

func (r *recordingLogger) Log(info RequestInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
}

func newTestEngine(rl RequestLogger, timeout time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(LogRequest(rl))
	r.Use(gin.Recovery())
	r.Use(Timeout(timeout))
	return r
}

func TestLogRequest(t *testing.T) {
	rl := &recordingLogger{}
	r := newTestEngine(rl, time.Second)
	r.POST("/convert", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/convert?x=1", strings.NewReader("body"))
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, rl.infos, 1)
	info := rl.infos[0]
	assert.Equal(t, http.MethodPost, info.Method)
	assert.Equal(t, "/convert", info.Path)
	assert.Equal(t, "x=1", info.Query)
	assert.Equal(t, http.StatusOK, info.StatusCode)
	assert.Equal(t, int64(4), info.RequestSize)
	assert.Equal(t, int64(2), info.ResponseSize)
	assert.Equal(t, "test-agent", info.UserAgent)
	assert.Equal(t, w.Header().Get(HeaderRequestID), info.RequestID)
	assert.NotEmpty(t, info.RequestID)
	assert.False(t, info.TimedOut)
}

func TestRequestIDPropagated(t *testing.T) {
	rl := &recordingLogger{}
	r := newTestEngine(rl, time.Second)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	require.Len(t, rl.infos, 1)
	assert.Equal(t, "abc-123", rl.infos[0].RequestID)
}

func TestTimeoutNoResponse(t *testing.T) {
	rl := &recordingLogger{}
	r := newTestEngine(rl, 20*time.Millisecond)
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"status":"error","data":null,"messages":[{"msgid":5001,"errcode":"request_timeout"}]}`, w.Body.String())
	require.Len(t, rl.infos, 1)
	assert.True(t, rl.infos[0].TimedOut)
}

func TestTimeoutKeepsWrittenResponse(t *testing.T) {
	rl := &recordingLogger{}
	r := newTestEngine(rl, 20*time.Millisecond)
	r.GET("/late", func(c *gin.Context) {
		time.Sleep(40 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rl.infos, 1)
	assert.True(t, rl.infos[0].TimedOut)
}

func TestTimeoutNormalCompletion(t *testing.T) {
	r := newTestEngine(&recordingLogger{}, time.Second)
	r.GET("/quick", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quick", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogHarbourAdapter(t *testing.T) {
	var buf bytes.Buffer
	lh := logharbour.NewLogger(logharbour.NewLoggerContext(logharbour.Info), "router-test", &buf)

	NewLogHarbourAdapter(lh).Log(RequestInfo{
		RequestID:  "req-1",
		Method:     http.MethodGet,
		Path:       "/healthz",
		StatusCode: http.StatusOK,
		TimedOut:   true,
	})

	out := buf.String()
	assert.Contains(t, out, "HTTP request completed")
	assert.Contains(t, out, "req-1")
	assert.Contains(t, out, "/healthz")
	assert.Contains(t, out, "timed_out")
}

func TestGetStatus(t *testing.T) {
	assert.Equal(t, logharbour.Success, getStatus(http.StatusOK))
	assert.Equal(t, logharbour.Success, getStatus(http.StatusFound))
	assert.Equal(t, logharbour.Failure, getStatus(http.StatusBadRequest))
	assert.Equal(t, logharbour.Failure, getStatus(http.StatusGatewayTimeout))
}
