package emulator

import (
	"github.com/gin-gonic/gin"

	"taskdeck/pkg/response"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "taskdeck-emulator"
)

func (srv *Server) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

func (srv *Server) readyCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ready",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

func (srv *Server) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
