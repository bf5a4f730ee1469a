package middleware

import (
	"fmt"
	"net/http"

	slacklog "github.com/firstandthird/go-slack-logging"
	"github.com/gin-gonic/gin"
)

/**
 * GinMiddleware attaches request metadata (ID, IP, method, path) to the
 * request context and echoes the request ID back to the client. Internal
 * error reports pick the metadata up from there.
 *
 * @return gin.HandlerFunc Metadata middleware handler
 */
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := slacklog.NewRequestMeta(c.Request)
		meta.IP = c.ClientIP()

		ctx := slacklog.WithMeta(c.Request.Context(), meta)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", meta.RequestID)
		c.Next()
	}
}

/**
 * GinErrorReporter emits a request-error event for every request that ends
 * with a 5xx status. The panic message, collected gin errors or a generic
 * status description becomes the error, in that order of preference.
 *
 * @param src Event hub the forwarder is attached to
 * @return gin.HandlerFunc Error reporting middleware handler
 */
func GinErrorReporter(src *slacklog.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusInternalServerError {
			return
		}

		var err error
		if panicInfo, exists := c.Get("panic_info"); exists {
			err = fmt.Errorf("%s", panicInfo.(string))
		} else if len(c.Errors) > 0 {
			err = fmt.Errorf("%s", c.Errors.String())
		} else {
			err = fmt.Errorf("request failed with status %d", status)
		}

		src.RequestError(c.Request, err)
	}
}

/**
 * GinRecovery converts panics into 500 responses and stores the panic
 * message so GinErrorReporter can forward it.
 *
 * @return gin.HandlerFunc Recovery middleware handler
 */
func GinRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.Set("panic_info", fmt.Sprintf("PANIC: %v", r))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()

		c.Next()
	}
}
