package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// JSONResponse writes the auction API's envelope. data carries the
// operation payload (snapshot, balances, job ack); nil means the
// operation has none.
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError writes the error form of the envelope. message is the
// client-facing summary; err carries the detail, including the engine's
// sentinel chain.
func JSONError(c *gin.Context, status int, err error, message string) {
	if err == nil {
		err = errors.New(message)
	}
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}
