package http

import (
	"net/http"
	"strings"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/services"
	"github.com/ttracx/invoicetracker/internal/storage"
)

type lineItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

type invoiceRequest struct {
	ClientID  string            `json:"clientId"`
	IssueDate string            `json:"issueDate"`
	DueDate   string            `json:"dueDate"`
	Status    string            `json:"status"`
	Tax       string            `json:"tax"`
	Notes     string            `json:"notes"`
	Items     []lineItemRequest `json:"items"`
}

// toInput converts the wire form, parsing dates and decimal amounts. Money
// parse failures surface as ErrInvalidAmount so they map to 422 like every
// other validation error.
func (req invoiceRequest) toInput() (services.InvoiceInput, error) {
	in := services.InvoiceInput{
		ClientID: strings.TrimSpace(req.ClientID),
		Status:   core.Status(req.Status),
		Notes:    req.Notes,
	}

	if req.IssueDate != "" {
		issue, err := parseDate(req.IssueDate)
		if err != nil {
			return in, core.ErrInvalidDate
		}
		in.IssueDate = issue
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return in, core.ErrInvalidDate
		}
		in.DueDate = due
	}

	if req.Tax != "" {
		cents, err := core.ParseTaxToCents(req.Tax)
		if err != nil {
			return in, core.ErrInvalidAmount
		}
		in.Tax = core.Money{Cents: cents}
	}

	for _, item := range req.Items {
		cents, err := core.ParseAmountToCents(item.UnitPrice)
		if err != nil {
			return in, core.ErrInvalidAmount
		}
		in.Items = append(in.Items, services.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   core.Money{Cents: cents},
		})
	}

	return in, nil
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := storage.InvoiceFilter{
		Status:   core.Status(r.URL.Query().Get("status")),
		ClientID: r.URL.Query().Get("clientId"),
	}

	invoices, err := s.invoices.List(r.Context(), userID(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoices(invoices))
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := s.invoices.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoice(inv))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoice(inv))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := s.invoices.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoice(inv))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.invoices.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
