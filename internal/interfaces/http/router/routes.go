package router

import (
	"github.com/gin-gonic/gin"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"github.com/profitmap/docflow/internal/interfaces/http/handler"
	"github.com/profitmap/docflow/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the engine
type Handlers struct {
	Documents     *handler.DocumentHandler
	Relationships *handler.RelationshipHandler
	System        *handler.SystemHandler
}

// EngineOptions configures the gin engine
type EngineOptions struct {
	HTTP        config.HTTPConfig
	Tracing     bool
	ServiceName string
}

// NewEngine creates a gin engine with the standard middleware stack.
// Order matters: the request ID feeds the span and the request logger.
func NewEngine(opts EngineOptions, log *zap.Logger) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName))
	}
	engine.Use(logger.GinMiddleware(log))
	if opts.Tracing {
		engine.Use(middleware.TraceAttributes())
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	middleware.SetupValidator()

	return engine, nil
}

// DocumentRoutes builds the /documents route group
func DocumentRoutes(docs *handler.DocumentHandler, rels *handler.RelationshipHandler) *DomainGroup {
	g := NewDomainGroup("documents", "/documents")

	g.POST("/offers", docs.CreateOffer)
	g.POST("/invoices", docs.CreateInvoice)

	g.GET("/company/:companyId", docs.ListByCompany)
	g.GET("/company/:companyId/type/:type", docs.ListByCompanyAndType)
	g.GET("/company/:companyId/type/:type/count", docs.CountByCompanyAndType)
	g.GET("/company/:companyId/number/:number", docs.GetByNumber)
	g.GET("/company/:companyId/relationships", rels.CompanyRelationships)

	g.GET("/:id", docs.GetByID)
	g.DELETE("/:id", docs.Delete)
	g.PATCH("/:id/status", docs.UpdateStatus)
	g.POST("/:id/convert-to-invoice", docs.ConvertToInvoice)
	g.POST("/:id/notify", docs.ResendNotification)

	g.POST("/relationships", rels.Link)
	g.GET("/relationships/:relationshipId", rels.GetRelationship)
	g.DELETE("/relationships/:relationshipId", rels.Unlink)
	g.GET("/:id/related-offers", rels.RelatedOffers)
	g.GET("/:id/related-invoices", rels.RelatedInvoices)
	g.GET("/:id/relationships", rels.Relationships)
	g.GET("/:id/related-to/:otherId", rels.AreRelated)

	return g
}

// Mount registers the health probe and the versioned API on the engine
func Mount(engine *gin.Engine, h Handlers, opts ...RouterOption) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...)
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	r.Register(system)
	r.Register(DocumentRoutes(h.Documents, h.Relationships))
	r.Setup()
}
