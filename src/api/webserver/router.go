package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stake-plus/polkadot-gov-forum/src/api/config"
	"github.com/stake-plus/polkadot-gov-forum/src/api/engine"
)

func New(cfg config.Config, orch *engine.Orchestrator) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, orch)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, orch *engine.Orchestrator) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	propH := NewProposals(orch)
	reportH := NewReports(orch)
	reportLimiter := NewRateLimiter(10, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.GET("/proposals/:net/:type", propH.Listing)
		v1.GET("/proposals/:net/:type/:id", propH.Single)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.PUT("/proposals/:net/:type/:id", propH.Update)
		secured.POST("/reports", RateLimitMiddleware(reportLimiter), reportH.Create)
	}
}
