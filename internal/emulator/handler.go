package emulator

import "github.com/gin-gonic/gin"

func (srv *Server) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerProtocolRoutes()
}

func (srv *Server) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.rateLimit())
}

func (srv *Server) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

func (srv *Server) registerProtocolRoutes() {
	v1 := srv.gin.Group("/v1")

	accounts := v1.Group("/accounts")
	accounts.POST("/signUp", srv.handleSignUp)
	accounts.POST("/signIn", srv.handleSignIn)
	accounts.POST("/sendResetEmail", srv.handleSendResetEmail)
	v1.POST("/token", srv.handleToken)

	collections := v1.Group("/collections/:collection")
	collections.Use(srv.authRequired())
	collections.POST("/documents", srv.handleAddDocument)
	collections.PUT("/documents/:id", srv.handleSetDocument)
	collections.DELETE("/documents/:id", srv.handleDeleteDocument)
	collections.GET("/watch", srv.handleWatch)
}
