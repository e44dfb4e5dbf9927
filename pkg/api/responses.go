package api

import "github.com/B3rK-3/ViewNJIT/pkg/database"

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status    string                `json:"status"`
	Version   string                `json:"version"`
	Redis     database.HealthStatus `json:"redis"`
	Courses   int                   `json:"courses"`
	Lecturers int                   `json:"lecturers"`
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
