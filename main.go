package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gala/client"
	"gala/config"
	"gala/controller"
	"gala/docs"
	"gala/logging"
	"gala/service"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

// @title           Gala Scoring API
// @version         1.0
// @description     Backend API for scoring awards galas: judge notes, submissions, locks and results.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	t := time.Now()
	logging.BootstrapLogger()

	cfg := config.Env()
	db, err := config.InitDB(cfg)
	if err != nil {
		logging.Log.Fatalf("Failed to initialize database: %v", err)
	}

	ttl := time.Duration(cfg.ResultsCacheTTLSeconds) * time.Second
	results := service.NewResultsCache(persistence.NewInMemoryStore(ttl), ttl)
	publisher := newPublisher()
	notifier := newNotifier(cfg)
	dispatcher := service.NewDispatcher(publisher, notifier, results)

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logging.Log.Errorf("Failed to set trusted proxies: %v", err)
		return
	}
	addLogger(r)
	addMetrics(r)
	addDocs(r)
	setCors(r)
	controller.SetRoutes(r, db, dispatcher, results)
	logging.Log.Infof("Server started in %s", time.Since(t))
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logging.Log.Errorf("Failed to start server: %v", err)
	}
}

func newPublisher() service.EventPublisher {
	writer, err := config.GetWriter()
	if err != nil {
		logging.Log.Infof("Event publishing disabled: %v", err)
		return client.NoopPublisher{}
	}
	return client.NewKafkaPublisher(writer)
}

func newNotifier(cfg *config.Config) service.Notifier {
	notifier, err := client.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordChannelID)
	if err != nil {
		logging.Log.Infof("Discord notifications disabled: %v", err)
		return client.NoopNotifier{}
	}
	return notifier
}

func addLogger(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/metrics"},
		Skip: func(c *gin.Context) bool {
			return c.Request.URL.Query().Get("token") != ""
		},
	}))
}

func addMetrics(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	re := regexp.MustCompile(`\d+`)
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := strings.Split(c.Request.URL.String(), "?")[0]
		url = re.ReplaceAllString(url, "?")
		return strings.TrimPrefix(url, "/api")
	}
	p.MetricsPath = "/api/metrics"
	p.Use(r)
}

func addDocs(r *gin.Engine) {
	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

func setCors(r *gin.Engine) {
	corsConfigGetOptions := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	corsConfigOtherMethods := cors.Config{
		AllowOrigins: []string{
			"http://localhost",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			requestedMethod := c.GetHeader("Access-Control-Request-Method")
			if requestedMethod == "GET" || requestedMethod == "OPTIONS" {
				cors.New(corsConfigGetOptions)(c)
			} else {
				cors.New(corsConfigOtherMethods)(c)
			}
			c.AbortWithStatus(204)
			return
		}

		if c.Request.Method == "GET" {
			cors.New(corsConfigGetOptions)(c)
		} else {
			cors.New(corsConfigOtherMethods)(c)
		}
	})
}
