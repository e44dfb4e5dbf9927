package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// getProfsHandler handles POST /getprofs: each requested instructor name
// maps to its rating record, or null when none is cached.
func (s *Server) getProfsHandler(c *gin.Context) {
	var req ProfsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	resp := make(map[string]*models.LecturerRating, len(req.Profs))
	for _, name := range req.Profs {
		if rating, ok := s.lecturers.Get(name); ok {
			r := rating
			resp[name] = &r
		} else {
			resp[name] = nil
		}
	}
	c.JSON(http.StatusOK, resp)
}
