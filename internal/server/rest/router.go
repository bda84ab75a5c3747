package rest

import "github.com/gin-gonic/gin"

// NewRouter wires the API routes onto a gin engine with the envelope
// recovery middleware installed.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(h.log))

	api := r.Group("/api")
	api.GET("/intakes/:intakeId", h.GetIntake)
	api.GET("/test-sftp-list", h.ListTransferDirectories)

	return r
}
