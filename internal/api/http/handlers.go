package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/docs"
	"github.com/vadimbarashkov/shortlink/internal/api/http/static"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

func handleAdminPage(w http.ResponseWriter, r *http.Request) {
	render.HTML(w, r, static.AdminPage)
}

func handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(docs.SwaggerYAML) //nolint:errcheck
}

func handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.RouteNotFoundResponse)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, response.MethodNotAllowedResponse)
}

func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		path := chi.URLParam(r, "*")
		if path == "" {
			render.Status(r, http.StatusNotFound)
			render.PlainText(w, r, http.StatusText(http.StatusNotFound))
			return
		}

		targetURL, err := svc.ResolveLink(r.Context(), path)
		if err != nil {
			if errors.Is(err, models.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.PlainText(w, r, response.LinkNotFoundResponse.Error)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.PlainText(w, r, http.StatusText(http.StatusInternalServerError))
			return
		}

		http.Redirect(w, r, targetURL, http.StatusFound)
	}
}

// decodeRequest reads a JSON body into v and answers 400 when it cannot.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		render.Status(r, http.StatusBadRequest)

		if errors.Is(err, io.EOF) {
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return false
	}

	return true
}

type shortenRequest struct {
	URL        string `json:"url" validate:"required"`
	CustomPath string `json:"customPath"`
}

func handleShortenLink(svc LinkService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenLink"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if !decodeRequest(w, r, &req) {
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidURLResponse)
			return
		}

		link, err := svc.CreateLink(r.Context(), req.URL, req.CustomPath)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidURL):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidURLResponse)
			case errors.Is(err, models.ErrInvalidPath):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidPathResponse)
			case errors.Is(err, models.ErrPathTaken):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.PathTakenResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.ShortenResponse{
			ShortURL:  link.ShortURL(requestOrigin(r, baseURL)),
			Path:      link.Path,
			TargetURL: link.URL,
		})
	}
}

func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListLinks"

	return func(w http.ResponseWriter, r *http.Request) {
		links, err := svc.ListLinks(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.FetchLinksErrorResponse)
			return
		}

		if links == nil {
			links = []models.Link{}
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, links)
	}
}

type updateRequest struct {
	Path string `json:"path" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

func handleUpdateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateLink"

	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest

		if !decodeRequest(w, r, &req) {
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidUpdateResponse)
			return
		}

		link, err := svc.UpdateLink(r.Context(), req.Path, req.URL)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidInput):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidUpdateResponse)
			case errors.Is(err, models.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.LinkNotFoundResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.UpdateResponse{
			Success: true,
			Path:    link.Path,
			NewURL:  link.URL,
		})
	}
}

type deleteRequest struct {
	Path string `json:"path" validate:"required"`
}

func handleDeleteLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"

	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest

		if !decodeRequest(w, r, &req) {
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.PathRequiredResponse)
			return
		}

		err := svc.DeleteLink(r.Context(), req.Path)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidInput):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.PathRequiredResponse)
			case errors.Is(err, models.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.LinkNotFoundResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.DeleteResponse{
			Success:     true,
			DeletedPath: req.Path,
		})
	}
}

// requestOrigin returns baseURL if set, otherwise scheme and host of r.
func requestOrigin(r *http.Request, baseURL string) string {
	if baseURL != "" {
		return baseURL
	}

	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}
