// Package router provides the gin middlewares every amount2words route runs
// behind: request IDs, structured request logging and request timeouts.
//
// Recommended order:
//
//	r.Use(router.RequestID())
//	r.Use(router.LogRequest(router.NewLogHarbourAdapter(logger)))
//	r.Use(gin.Recovery())
//	r.Use(router.Timeout(10 * time.Second))
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/logharbour/logharbour"
)

// RequestInfo contains all the information about a request to be logged
type RequestInfo struct {
	RequestID    string        `json:"request_id,omitempty"`
	Method       string        `json:"method"`
	Path         string        `json:"path"`
	ClientIP     string        `json:"client_ip"`
	StatusCode   int           `json:"status_code"`
	StartTime    time.Time     `json:"start_time"` // UTC
	Duration     time.Duration `json:"duration"`
	RequestSize  int64         `json:"request_size"`
	ResponseSize int64         `json:"response_size"`
	Query        string        `json:"query,omitempty"`
	UserAgent    string        `json:"user_agent,omitempty"`
	TimedOut     bool          `json:"timed_out,omitempty"`
}

// RequestLogger defines the interface that a logger must implement to be used with LogRequest middleware
type RequestLogger interface {
	Log(info RequestInfo)
}

// LogRequest returns a middleware that logs one entry per request once the
// rest of the chain has finished.
func LogRequest(logger RequestLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestSize := c.Request.ContentLength

		c.Next()

		timedOut := c.GetBool(CtxKeyTimedOut)
		logger.Log(RequestInfo{
			RequestID:    c.GetString(CtxKeyRequestID),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			ClientIP:     c.ClientIP(),
			StatusCode:   c.Writer.Status(),
			StartTime:    startTime.UTC(),
			Duration:     time.Since(startTime),
			RequestSize:  requestSize,
			ResponseSize: int64(c.Writer.Size()),
			Query:        c.Request.URL.RawQuery,
			UserAgent:    c.Request.UserAgent(),
			TimedOut:     timedOut,
		})
	}
}

// LogHarbourAdapter adapts a LogHarbour logger to implement the RequestLogger interface
type LogHarbourAdapter struct {
	logger *logharbour.Logger
}

// NewLogHarbourAdapter creates a new adapter for a LogHarbour logger
func NewLogHarbourAdapter(logger *logharbour.Logger) *LogHarbourAdapter {
	return &LogHarbourAdapter{
		logger: logger,
	}
}

// Log implements the RequestLogger interface by using LogHarbour's structured logging
func (a *LogHarbourAdapter) Log(info RequestInfo) {
	logger := a.logger.WithModule("http").
		WithOp("request").
		WithRemoteIP(info.ClientIP).
		WithClass(info.Method).
		WithInstanceId(info.Path).
		WithStatus(getStatus(info.StatusCode))

	activityData := map[string]any{
		"method":        info.Method,
		"path":          info.Path,
		"status":        info.StatusCode,
		"start_time":    info.StartTime.Format(time.RFC3339),
		"duration_ms":   info.Duration.Milliseconds(),
		"request_size":  info.RequestSize,
		"response_size": info.ResponseSize,
		"query":         info.Query,
		"user_agent":    info.UserAgent,
	}
	if info.RequestID != "" {
		activityData["request_id"] = info.RequestID
	}
	if info.TimedOut {
		activityData["timed_out"] = true
	}

	logger.Info().LogActivity("HTTP request completed", activityData)
}

func getStatus(statusCode int) logharbour.Status {
	if statusCode >= 200 && statusCode < 400 {
		return logharbour.Success
	}
	return logharbour.Failure
}
