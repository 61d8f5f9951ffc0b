// Package controllers handles HTTP request handling for the server-rendered
// pages. Controllers bind forms, call services, and translate service errors
// into flash messages and redirects; expected errors never surface as raw
// error responses.
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaan/counseldesk/internal/middleware"
	"github.com/kaan/counseldesk/internal/pkg/flash"
	"github.com/kaan/counseldesk/internal/pkg/logger"
)

// render draws a template with the pending flash message and the current
// identity merged into the template data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if msg, ok := flash.Take(c); ok {
		data["Flash"] = msg
	}
	if ident, ok := middleware.CurrentIdentity(c); ok {
		data["User"] = ident
	}
	c.HTML(status, name, data)
}

// serverError logs an unexpected error and renders the generic error page.
// Only persistence faults and programming errors end up here.
func serverError(c *gin.Context, err error) {
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unexpected error handling request")
	render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Server Error"})
	c.Abort()
}

// redirectWithError flashes a message and redirects, the standard failure
// path for expected errors.
func redirectWithError(c *gin.Context, message, target string) {
	flash.Error(c, message)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
