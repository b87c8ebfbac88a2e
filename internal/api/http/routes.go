// Package http serves short-link redirects, the admin page and the admin JSON API.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/pkg/middleware/cors"
	"github.com/vadimbarashkov/shortlink/pkg/middleware/recoverer"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxRequestBodySize = 1 << 20

type LinkService interface {
	CreateLink(ctx context.Context, targetURL, customPath string) (*models.Link, error)
	ResolveLink(ctx context.Context, path string) (string, error)
	ListLinks(ctx context.Context) ([]models.Link, error)
	UpdateLink(ctx context.Context, path, newURL string) (*models.Link, error)
	DeleteLink(ctx context.Context, path string) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter builds the HTTP handler of the service. baseURL, when not empty,
// is used as the origin of returned short URLs instead of the request host.
func NewRouter(logger *httplog.Logger, linkSvc LinkService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))
	r.Use(middleware.RequestSize(maxRequestBodySize))

	r.Get("/", handleAdminPage)
	r.Get("/admin", handleAdminPage)

	r.Get("/admin/docs/swagger.yml", handleSwaggerDoc)
	r.Get("/admin/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/admin/docs/swagger.yml"),
	))

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Use(cors.New())
		r.NotFound(handleRouteNotFound)
		r.MethodNotAllowed(handleMethodNotAllowed)

		r.Post("/shorten", handleShortenLink(linkSvc, validate, baseURL))
		r.Get("/links", handleListLinks(linkSvc))
		r.Put("/update", handleUpdateLink(linkSvc, validate))
		r.Delete("/delete", handleDeleteLink(linkSvc, validate))
	})

	r.HandleFunc("/*", handleRedirect(linkSvc))

	return r
}
