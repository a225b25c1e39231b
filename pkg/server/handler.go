package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avukalov/dashboard-core/pkg/dashboard"
)

// Handler exposes the dashboard facade over HTTP. Only the user-scoped
// path is reachable from here; the admin strategy stays internal.
type Handler struct {
	dash *dashboard.Dashboard
}

// NewHandler creates a Handler over the facade.
func NewHandler(dash *dashboard.Dashboard) *Handler {
	return &Handler{dash: dash}
}

// RegisterRoutes mounts the dashboard API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/invoices", h.listInvoices)             // GET    /api/v1/invoices?query=&page=&orderBy=
		r.Get("/invoices/latest", h.latestInvoices)    // GET    /api/v1/invoices/latest
		r.Get("/invoices/pages", h.invoicePages)       // GET    /api/v1/invoices/pages?query=
		r.Get("/invoices/{id}", h.getInvoice)          // GET    /api/v1/invoices/{id}
		r.Post("/invoices", h.createInvoice)           // POST   /api/v1/invoices
		r.Put("/invoices/{id}", h.updateInvoice)       // PUT    /api/v1/invoices/{id}
		r.Delete("/invoices/{id}", h.deleteInvoice)    // DELETE /api/v1/invoices/{id}
		r.Get("/customers", h.listCustomers)           // GET    /api/v1/customers
		r.Get("/customers/table", h.customerTable)     // GET    /api/v1/customers/table?query=
		r.Get("/cards", h.cardData)                    // GET    /api/v1/cards
	})
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("query")
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	orderBy := dashboard.ParseOrderBy(q.Get("orderBy"))

	rows, err := h.dash.FilteredInvoices(r.Context(), search, page, orderBy)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) latestInvoices(w http.ResponseWriter, r *http.Request) {
	latest, err := h.dash.LatestInvoices(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, latest)
}

func (h *Handler) invoicePages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.dash.InvoicePages(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int{"total_pages": pages})
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.dash.InvoiceByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, invoice)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var input dashboard.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeMutation(w, h.dash.CreateInvoice(r.Context(), input), http.StatusCreated)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	var input dashboard.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	writeMutation(w, h.dash.UpdateInvoice(r.Context(), chi.URLParam(r, "id"), input), http.StatusOK)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	writeMutation(w, h.dash.DeleteInvoice(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.dash.Customers(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) customerTable(w http.ResponseWriter, r *http.Request) {
	customers, err := h.dash.FilteredCustomers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) cardData(w http.ResponseWriter, r *http.Request) {
	cards, err := h.dash.CardData(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	respond(w, http.StatusOK, cards)
}

// writeMutation maps a mutation outcome onto HTTP: field errors become
// 422, opaque failures 500, success the given code.
func writeMutation(w http.ResponseWriter, result dashboard.MutationResult, okStatus int) {
	switch {
	case result.OK:
		respond(w, okStatus, result)
	case len(result.Errors) > 0:
		respond(w, http.StatusUnprocessableEntity, result)
	default:
		respond(w, http.StatusInternalServerError, result)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
