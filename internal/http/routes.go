package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/policy"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Gateway      *gateway.Client
	Sessions     SessionProvider
	Exceptions   policy.IdentityExceptions
	CookieName   string
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter wires the full HTTP surface: auth flows, guarded pages, guarded
// JSON proxies, and health. Session restore runs once for every request;
// each route then re-evaluates the guard from the restored session.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookieName := services.CookieName
	if cookieName == "" {
		cookieName = "lms_session"
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Gateway:      services.Gateway,
		Sessions:     services.Sessions,
		CookieName:   cookieName,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	pageHandlers := &PageHandlers{
		Gateway:    services.Gateway,
		Exceptions: services.Exceptions,
		Logger:     logger,
	}
	apiHandlers := &APIHandlers{
		Gateway:    services.Gateway,
		Exceptions: services.Exceptions,
		Logger:     logger,
	}

	registerAuthRoutes(mux, authHandlers)
	registerPageRoutes(mux, pageHandlers)
	registerAPIRoutes(mux, apiHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Chain(mux,
		Recover(logger),
		Logging(logger),
		SessionRestore(services.Sessions, cookieName),
	)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/verify-email", h.VerifyEmail)
	mux.HandleFunc("POST /auth/resend-verification", h.ResendVerification)
	mux.HandleFunc("POST /auth/find-id/send-code", h.SendFindIDCode)
	mux.HandleFunc("POST /auth/find-id/verify-code", h.VerifyFindIDCode)
	mux.HandleFunc("POST /auth/reset-password/send-code", h.SendResetPasswordCode)
	mux.HandleFunc("POST /auth/reset-password/verify-code", h.VerifyResetPasswordCode)
	mux.HandleFunc("POST /auth/reset-password/set-new", h.SetNewPassword)
	mux.Handle("POST /auth/withdraw", APIGuard()(http.HandlerFunc(h.Withdraw)))
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers) {
	page := func(dest policy.Destination, handler http.HandlerFunc) http.Handler {
		return PageGuard(dest)(handler)
	}

	mux.Handle("GET /{$}", page(policy.DestDashboard, h.Dashboard))
	mux.Handle("GET /books", page(policy.DestBooks, h.Books))
	mux.Handle("GET /members", page(policy.DestMembers, h.Members))
	mux.Handle("GET /loans", page(policy.DestLoans, h.Loans))
	mux.Handle("GET /profile", page(policy.DestProfile, h.Profile))
	mux.Handle("GET /settings", page(policy.DestSettings, h.Settings))

	mux.Handle("GET /login", page(policy.DestLogin, AnonymousPage("login")))
	mux.Handle("GET /register", page(policy.DestRegister, AnonymousPage("register")))
	mux.Handle("GET /verify-email", page(policy.DestVerifyEmail, AnonymousPage("verify-email")))
	mux.Handle("GET /find-id", page(policy.DestFindID, AnonymousPage("find-id")))
	mux.Handle("GET /find-password", page(policy.DestFindPassword, AnonymousPage("find-password")))
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers) {
	anyRole := APIGuard()
	adminOnly := APIGuard(domainauth.RoleAdmin)

	handle := func(pattern string, guard func(http.Handler) http.Handler, fn http.HandlerFunc) {
		mux.Handle(pattern, guard(fn))
	}

	// Books: reachable only through the admin catalog page.
	handle("GET /api/books", adminOnly, h.ListBooks)
	handle("GET /api/books/{id}", adminOnly, h.GetBook)
	handle("GET /api/books/{id}/availability", adminOnly, h.BookAvailability)
	handle("POST /api/books", adminOnly, h.CreateBook)
	handle("PUT /api/books/{id}", adminOnly, h.UpdateBook)
	handle("DELETE /api/books/{id}", adminOnly, h.DeleteBook)

	handle("GET /api/members", adminOnly, h.ListMembers)
	handle("GET /api/members/{id}", adminOnly, h.GetMember)
	handle("GET /api/members/member-number/{memberNumber}", adminOnly, h.GetMemberByNumber)
	handle("POST /api/members", adminOnly, h.CreateMember)
	handle("PUT /api/members/{id}", adminOnly, h.UpdateMember)
	handle("DELETE /api/members/{id}", adminOnly, h.DeleteMember)

	handle("GET /api/loans", adminOnly, h.ListLoans)
	handle("GET /api/loans/overdue", adminOnly, h.OverdueLoans)
	handle("GET /api/loans/member/{memberId}", adminOnly, h.LoansByMember)
	handle("GET /api/loans/{id}", adminOnly, h.GetLoan)
	handle("POST /api/loans", adminOnly, h.CreateLoan)
	handle("PUT /api/loans/{id}/return", adminOnly, h.ReturnLoan)
	handle("PUT /api/loans/{id}/extend", adminOnly, h.ExtendLoan)
	handle("PUT /api/loans/{id}/lost", adminOnly, h.MarkLoanLost)
	handle("DELETE /api/loans/{id}", adminOnly, h.DeleteLoan)

	// Dashboard data serves both roles.
	handle("GET /api/dashboard/stats", anyRole, h.DashboardStats)
	handle("GET /api/dashboard/recent-loans", anyRole, h.DashboardRecentLoans)
	handle("GET /api/dashboard/popular-books", anyRole, h.DashboardPopularBooks)
}
