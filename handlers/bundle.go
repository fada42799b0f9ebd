package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Matching endpoints
	QueryAvailability gin.HandlerFunc
	AssignCleaner     gin.HandlerFunc

	Health gin.HandlerFunc
}
