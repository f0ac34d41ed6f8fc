// Package decor is the content-management backend for a decor retail site:
// product catalog with categories, variants, images and reviews, a blog
// with categories and comments, static pages, FAQs, carousel slides,
// site-wide contact info, and contact messages forwarded best-effort to a
// Google spreadsheet.
//
// Every entity save goes through an explicit upload pipeline — slug
// derivation and image normalization — before it reaches the SQLite store.
package decor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ducdoan1806/decor-be/sheets"
)

// App is the central application object. It wires together the store, the
// media directory, the upload pipeline, the post cache, the public and
// admin HTTP surfaces, and the sheets notifier.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Store    *Store
	Media    *MediaStore
	Pipeline *Pipeline
	Cache    *PostCache
	Notifier *sheets.Notifier

	log           *zap.Logger
	submitLimiter *SubmitLimiter
}

// Option configures additional App behavior.
type Option func(*App)

// WithNotifier injects a preconfigured sheets notifier instead of building
// one from Config.
func WithNotifier(n *sheets.Notifier) Option {
	return func(a *App) {
		a.Notifier = n
	}
}

// New creates an App with the given configuration and logger.
func New(cfg Config, log *zap.Logger, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		log:    log,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, builds the pipeline and cache, and registers
// middleware and routes. Separated from Start so tests can drive the
// handler surface without a listening socket.
func (a *App) Init() error {
	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("decor: init store: %w", err)
		}
		a.Store = store
	}
	a.Media = NewMediaStore(a.Config.MediaDir)
	a.Pipeline = NewPipeline(a.Store, a.Media, a.Config)
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.submitLimiter = NewSubmitLimiter(5, time.Minute)

	if a.Notifier == nil {
		a.Notifier = sheets.NewNotifier(sheets.Config{
			CredentialsFile: a.Config.SheetsCredentialsFile,
			SpreadsheetID:   a.Config.SheetsSpreadsheetID,
			Timezone:        a.Config.Timezone,
		}, a.log)
	}

	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

// Start initializes the app and starts the HTTP server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.log.Info("listening", zap.String("addr", a.Config.Addr))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Normalized uploads.
	e.Static("/media", a.Media.Root())

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public read API.
	api := e.Group("/api")
	api.GET("/products/", a.handleProductList)
	api.GET("/products/:slug/", a.handleProductDetail)
	api.GET("/categories/", a.handleCategoryList)
	api.GET("/pages/", a.handlePageList)
	api.GET("/pages/:slug/", a.handlePageDetail)
	api.GET("/blog/categories/", a.handleBlogCategoryList)
	api.GET("/blog/posts/", a.handleBlogPostList)
	api.GET("/blog/posts/:slug/", a.handleBlogPostDetail)
	api.GET("/faqs/", a.handleFAQList)
	api.GET("/slides/", a.handleSlideList)
	api.GET("/contact-info/", a.handleContactInfoList)

	// Public write endpoints: contact messages and blog comments only.
	api.POST("/contacts/", a.handleContactCreate)
	api.POST("/blog/comments/", a.handleBlogCommentCreate)

	// Admin write surface, consumed by the external admin UI.
	admin := api.Group("/admin", a.requireAdmin)
	admin.GET("/contacts/", a.handleContactList)

	admin.POST("/categories/", a.handleAdminCategoryCreate)
	admin.PUT("/categories/:id/", a.handleAdminCategoryUpdate)
	admin.DELETE("/categories/:id/", a.handleAdminCategoryDelete)

	admin.POST("/products/", a.handleAdminProductCreate)
	admin.PUT("/products/:id/", a.handleAdminProductUpdate)
	admin.DELETE("/products/:id/", a.handleAdminProductDelete)
	admin.POST("/products/:id/images/", a.handleAdminProductImageUpload)
	admin.DELETE("/product-images/:id/", a.handleAdminProductImageDelete)
	admin.POST("/products/:id/reviews/", a.handleAdminProductReviewCreate)

	admin.POST("/pages/", a.handleAdminPageCreate)
	admin.PUT("/pages/:id/", a.handleAdminPageUpdate)
	admin.DELETE("/pages/:id/", a.handleAdminPageDelete)

	admin.POST("/blog/categories/", a.handleAdminBlogCategoryCreate)
	admin.PUT("/blog/categories/:id/", a.handleAdminBlogCategoryUpdate)
	admin.DELETE("/blog/categories/:id/", a.handleAdminBlogCategoryDelete)

	admin.POST("/blog/posts/", a.handleAdminBlogPostCreate)
	admin.PUT("/blog/posts/:id/", a.handleAdminBlogPostUpdate)
	admin.DELETE("/blog/posts/:id/", a.handleAdminBlogPostDelete)

	admin.POST("/faqs/", a.handleAdminFAQCreate)
	admin.PUT("/faqs/:id/", a.handleAdminFAQUpdate)
	admin.DELETE("/faqs/:id/", a.handleAdminFAQDelete)

	admin.POST("/slides/", a.handleAdminSlideCreate)
	admin.PUT("/slides/:id/", a.handleAdminSlideUpdate)
	admin.DELETE("/slides/:id/", a.handleAdminSlideDelete)

	admin.POST("/contact-info/", a.handleAdminContactInfoCreate)
	admin.PUT("/contact-info/:id/", a.handleAdminContactInfoUpdate)
	admin.DELETE("/contact-info/:id/", a.handleAdminContactInfoDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
