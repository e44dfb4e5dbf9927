package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getCoursesHandler handles GET /getcourses with the full catalog map.
func (s *Server) getCoursesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Snapshot())
}
