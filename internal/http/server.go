package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/justinas/alice"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/middleware/ratelimit"
	"github.com/ttracx/invoicetracker/internal/middleware/security"
	"github.com/ttracx/invoicetracker/internal/middleware/trace"
	"github.com/ttracx/invoicetracker/internal/services"
	"github.com/ttracx/invoicetracker/internal/storage"
)

// The server depends on the narrow slice of each service it actually
// calls, so handler tests can run against fakes.

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (core.User, string, error)
	Login(ctx context.Context, email, password string) (core.User, string, error)
}

type ClientService interface {
	Create(ctx context.Context, ownerID string, in services.ClientInput) (core.Client, error)
	Update(ctx context.Context, ownerID, id string, in services.ClientInput) (core.Client, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (core.Client, error)
	List(ctx context.Context, ownerID string) ([]core.Client, error)
}

type InvoiceService interface {
	Create(ctx context.Context, ownerID string, in services.InvoiceInput) (core.Invoice, error)
	Update(ctx context.Context, ownerID, id string, in services.InvoiceInput) (core.Invoice, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (core.Invoice, error)
	List(ctx context.Context, ownerID string, f storage.InvoiceFilter) ([]core.Invoice, error)
}

type PaymentService interface {
	Record(ctx context.Context, ownerID string, in services.PaymentInput) (core.Payment, error)
	List(ctx context.Context, ownerID, invoiceID string) ([]core.Payment, error)
}

type ReportService interface {
	Dashboard(ctx context.Context, ownerID string) (core.DashboardStats, error)
	Aging(ctx context.Context, ownerID string) (core.AgingReport, error)
}

type ReminderService interface {
	List(ctx context.Context, ownerID string) ([]core.Reminder, error)
	Pending(ctx context.Context, ownerID string) ([]services.PendingReminder, error)
}

// Pinger reports storage reachability; used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the server needs.
type Deps struct {
	Auth      AuthService
	Clients   ClientService
	Invoices  InvoiceService
	Payments  PaymentService
	Reports   ReportService
	Reminders ReminderService
	Verifier  TokenVerifier
	Pinger    Pinger
}

type Server struct {
	http.Server

	auth      AuthService
	clients   ClientService
	invoices  InvoiceService
	payments  PaymentService
	reports   ReportService
	reminders ReminderService
	verifier  TokenVerifier
	pinger    Pinger

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures middleware chains and routes, returning a
// ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		Server:    http.Server{Addr: addr},
		auth:      deps.Auth,
		clients:   deps.Clients,
		invoices:  deps.Invoices,
		payments:  deps.Payments,
		reports:   deps.Reports,
		reminders: deps.Reminders,
		verifier:  deps.Verifier,
		pinger:    deps.Pinger,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:  security.NewDetector(),
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)

	public := alice.New(
		tracer.Middleware,
		headers.Middleware,
		s.guard,
		s.limiter.Middleware(s.detector.ExtractClientIP, nil),
	)
	authed := public.Append(s.requireAuth)

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/register", public.ThenFunc(s.handleRegister))
	mux.Handle("POST /api/auth/login", public.ThenFunc(s.handleLogin))

	mux.Handle("GET /api/clients", authed.ThenFunc(s.handleListClients))
	mux.Handle("POST /api/clients", authed.ThenFunc(s.handleCreateClient))
	mux.Handle("GET /api/clients/{id}", authed.ThenFunc(s.handleGetClient))
	mux.Handle("PUT /api/clients/{id}", authed.ThenFunc(s.handleUpdateClient))
	mux.Handle("DELETE /api/clients/{id}", authed.ThenFunc(s.handleDeleteClient))

	mux.Handle("GET /api/invoices", authed.ThenFunc(s.handleListInvoices))
	mux.Handle("POST /api/invoices", authed.ThenFunc(s.handleCreateInvoice))
	mux.Handle("GET /api/invoices/{id}", authed.ThenFunc(s.handleGetInvoice))
	mux.Handle("PUT /api/invoices/{id}", authed.ThenFunc(s.handleUpdateInvoice))
	mux.Handle("DELETE /api/invoices/{id}", authed.ThenFunc(s.handleDeleteInvoice))

	mux.Handle("GET /api/payments", authed.ThenFunc(s.handleListPayments))
	mux.Handle("POST /api/payments", authed.ThenFunc(s.handleRecordPayment))

	mux.Handle("GET /api/dashboard/stats", authed.ThenFunc(s.handleDashboard))
	mux.Handle("GET /api/aging", authed.ThenFunc(s.handleAging))
	mux.Handle("GET /api/reminders", authed.ThenFunc(s.handleListReminders))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	return mux
}

// guard drops requests that match known attack patterns before they reach
// any handler.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			badRequest(w, "bad request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
