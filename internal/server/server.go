package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	appconfig "github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/internal/agent"
	agenttele "github.com/xinyuew3S2024/NewsByMood/internal/agent/telemetry"
	"github.com/xinyuew3S2024/NewsByMood/provider"
	"github.com/xinyuew3S2024/NewsByMood/session"
	"github.com/xinyuew3S2024/NewsByMood/tools/news_search"
)

func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Initialize shared dependencies (top-level DI)
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	retriever, err := news_search.NewRetriever(
		news_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKey,
		news_search.Options{
			Endpoint:     cfg.Search.Endpoint,
			Region:       cfg.Search.Region,
			Language:     cfg.Search.Language,
			GoogleDomain: cfg.Search.GoogleDomain,
			Timeout:      cfg.Search.Timeout,
		},
	)
	if err != nil {
		return err
	}

	tele := agenttele.NewTelemetry(nil)
	orchLogger := log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	orch, err := agent.NewOrchestrator(cfg, orchLogger, llm, retriever, tele)
	if err != nil {
		return err
	}

	store := session.NewStore(session.StoreType(cfg.Session.Store), agent.SystemPrompt())

	chat := &ChatHandler{Store: store, Orchestrator: orch, SessionTTL: cfg.Session.TTL}
	chat.Register(e.Group("/api/chat"))

	return e.Start(cfg.Server.Address)
}
