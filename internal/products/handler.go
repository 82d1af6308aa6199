package products

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shoplane/catalog/internal/observability"
	"github.com/shoplane/catalog/internal/platform/httpx"
)

const contentTypeJSON = "application/json"

// Handler exposes the product resource over REST.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler constructs a product handler. Metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// List handles GET /products with optional name, category, available and
// price filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := ListQuery{
		Name:      query.Get("name"),
		Category:  query.Get("category"),
		Available: query.Get("available"),
		Price:     query.Get("price"),
	}
	items, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Warn("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("returning products", slog.Int("count", len(items)))
	httpx.JSON(w, http.StatusOK, items)
}

// Get handles GET /products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Create handles POST /products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := checkContentType(r); err != nil {
		h.logger.Error("invalid content type", slog.String("content_type", r.Header.Get("Content-Type")))
		httpx.RespondError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: unable to read request body", httpx.ErrValidation))
		return
	}
	var product Product
	if err := product.Deserialize(body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.logger.Warn("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("product created", slog.Int64("id", created.ID))
	h.metrics.RecordMutation("create")
	w.Header().Set("Location", "/products/"+strconv.FormatInt(created.ID, 10))
	httpx.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /products/{id}. The path id wins over any id in the
// body; the record must already exist.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := checkContentType(r); err != nil {
		h.logger.Error("invalid content type", slog.String("content_type", r.Header.Get("Content-Type")))
		httpx.RespondError(w, err)
		return
	}
	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: unable to read request body", httpx.ErrValidation))
		return
	}
	if err := existing.Deserialize(body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	existing.ID = id
	updated, err := h.service.Update(r.Context(), existing)
	if err != nil {
		h.logger.Warn("update product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("product updated", slog.Int64("id", updated.ID))
	h.metrics.RecordMutation("update")
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /products/{id}. It is idempotent: the response is
// 204 whether or not the record existed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete product", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("product deleted", slog.Int64("id", id))
	h.metrics.RecordMutation("delete")
	w.WriteHeader(http.StatusNoContent)
}

// checkContentType enforces an exact application/json Content-Type on
// body-bearing requests before any of the body is read.
func checkContentType(r *http.Request) error {
	if r.Header.Get("Content-Type") != contentTypeJSON {
		return fmt.Errorf("%w: Content-Type must be %s", httpx.ErrUnsupportedMedia, contentTypeJSON)
	}
	return nil
}

// pathID parses the {id} segment. Malformed ids report not-found, matching
// the router contract that only integer ids address products.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: product with id '%s' was not found", httpx.ErrNotFound, raw)
	}
	return id, nil
}
