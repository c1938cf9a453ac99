package http

import (
	"net/http"
	"strings"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/services"
)

type paymentRequest struct {
	InvoiceID   string `json:"invoiceId"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
	Notes       string `json:"notes"`
}

func (req paymentRequest) toInput() (services.PaymentInput, error) {
	in := services.PaymentInput{
		InvoiceID: strings.TrimSpace(req.InvoiceID),
		Method:    core.PaymentMethod(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
	}

	cents, err := core.ParseAmountToCents(req.Amount)
	if err != nil {
		return in, core.ErrInvalidAmount
	}
	in.Amount = core.Money{Cents: cents}

	if req.PaymentDate != "" {
		date, err := parseDate(req.PaymentDate)
		if err != nil {
			return in, core.ErrInvalidDate
		}
		in.PaymentDate = date
	}

	return in, nil
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.payments.List(r.Context(), userID(r), r.URL.Query().Get("invoiceId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayments(payments))
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := s.payments.Record(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayment(payment))
}
