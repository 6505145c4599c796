package api

// This file contains model definitions for Swagger documentation

// HealthResponse represents the health check response
// @Description Health check payload
type HealthResponse struct {
	Status string `json:"status" example:"ok"` // Service status
}
