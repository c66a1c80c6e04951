package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gitea.jw6.us/james/traindesk/internal/domain"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// Customers displays the customer list with add/edit forms.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Asiakkaat",
	}
	if err := h.store.ReloadCustomers(r.Context()); err != nil {
		data["FlashError"] = errors.FlashMessage(r, "load customers", err)
	}
	data["Customers"] = h.store.Customers()
	h.render(w, r, "customers.html", h.withFlash(r, data))
}

// CreateCustomer handles the add-customer form.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/customers", map[string]string{"error": "invalid form"})
		return
	}

	cust := customerFromForm(r)
	if err := h.store.AddCustomer(r.Context(), cust); err != nil {
		h.redirect(w, r, "/customers", map[string]string{"error": errors.FlashMessage(r, "create customer", err)})
		return
	}
	h.redirect(w, r, "/customers", map[string]string{"status": "created"})
}

// UpdateCustomer handles the edit-customer form.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/customers", map[string]string{"error": "invalid form"})
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.redirect(w, r, "/customers", map[string]string{"error": "invalid id"})
		return
	}

	cust := customerFromForm(r)
	if err := h.store.EditCustomer(r.Context(), id, cust); err != nil {
		h.redirect(w, r, "/customers", map[string]string{"error": errors.FlashMessage(r, "update customer", err)})
		return
	}
	h.redirect(w, r, "/customers", map[string]string{"status": "updated"})
}

// DeleteCustomer removes a customer. Trainings referencing it are kept and
// render with the fallback name.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.redirect(w, r, "/customers", map[string]string{"error": "invalid id"})
		return
	}

	if err := h.store.RemoveCustomer(r.Context(), id); err != nil {
		h.redirect(w, r, "/customers", map[string]string{"error": errors.FlashMessage(r, "delete customer", err)})
		return
	}
	h.redirect(w, r, "/customers", map[string]string{"status": "deleted"})
}

func customerFromForm(r *http.Request) domain.Customer {
	field := func(name string) string {
		return strings.TrimSpace(r.FormValue(name))
	}
	return domain.Customer{
		FirstName:     field("firstname"),
		LastName:      field("lastname"),
		Email:         field("email"),
		Phone:         field("phone"),
		StreetAddress: field("streetaddress"),
		Postcode:      field("postcode"),
		City:          field("city"),
	}
}
