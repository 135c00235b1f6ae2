package api

import "github.com/gin-gonic/gin"

// Success writes the response envelope every endpoint shares.
func Success(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// SuccessMessage is for endpoints whose whole result is a sentence:
// message sits next to status, there is no data key.
func SuccessMessage(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"status": "success", "message": msg})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"status": "error", "message": msg})
}
