package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONError sends the error envelope used by every failing endpoint.
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// JSONMessage sends a bare confirmation message.
func JSONMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// JSONResource sends a confirmation message plus a single named resource,
// e.g. {"message": ..., "bid": {...}}.
func JSONResource(c *gin.Context, status int, message, name string, resource any) {
	c.JSON(status, gin.H{"message": message, name: resource})
}

// JSONCollection sends a counted list under the given name,
// e.g. {"count": 3, "bids": [...]}.
func JSONCollection(c *gin.Context, status int, name string, count int, items any) {
	c.JSON(status, gin.H{"count": count, name: items})
}
