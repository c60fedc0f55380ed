package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/amountwords/wscutils"
)

// CtxKeyTimedOut is set to true when the request ran out of time. LogRequest
// reads it.
const CtxKeyTimedOut = "_request_timed_out"

// Timeout puts a deadline of d on the request context. Handlers are expected
// to check the context and return without writing once it is done; if the
// deadline has passed and nothing was written, a 504 request_timeout
// response is sent. A response the handler did write is always kept.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		c.Set(CtxKeyTimedOut, true)
		if c.Writer.Written() {
			return
		}
		wscutils.SendErrorResponse(c, http.StatusGatewayTimeout, wscutils.NewErrorResponse(wscutils.ErrcodeRequestTimeout))
	}
}
