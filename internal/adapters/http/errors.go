package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/stoic-quote/internal/adapters/http/dto"
)

// noRoute answers unknown paths with the standard error envelope.
func noRoute(c *gin.Context) {
	dto.HandleErrorCode(c, dto.ErrorCodeNotFound, "route "+c.Request.URL.Path+" not found")
}

// noMethod answers a known path requested with the wrong method.
func noMethod(c *gin.Context) {
	dto.HandleErrorCode(c, dto.ErrorCodeMethodNotAllowed, "method "+c.Request.Method+" not allowed")
}

// registerFallbacks installs the 404 and 405 handlers on engine.
func registerFallbacks(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(noRoute)
	engine.NoMethod(noMethod)
}
