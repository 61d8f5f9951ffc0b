package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesController handles the static pages and the health probe.
type PagesController struct{}

// NewPagesController creates a new PagesController
func NewPagesController() *PagesController {
	return &PagesController{}
}

// Home renders the landing page.
func (ctl *PagesController) Home(c *gin.Context) {
	render(c, http.StatusOK, "index.html", gin.H{"Title": "CounselDesk"})
}

// Health reports liveness for probes.
func (ctl *PagesController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NotFound renders the 404 page for unmatched routes.
func (ctl *PagesController) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page Not Found"})
}
