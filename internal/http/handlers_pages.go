package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/policy"
)

// PageHandlers builds the view models behind the guarded page routes. Each
// model embeds the role-derived navigation and the action flags the view
// layer needs; no role check happens anywhere past this point.
type PageHandlers struct {
	Gateway    *gateway.Client
	Exceptions policy.IdentityExceptions
	Logger     *slog.Logger
}

// pageShell is the layout data common to every authenticated page.
type pageShell struct {
	Page string            `json:"page"`
	Nav  []policy.NavEntry `json:"nav"`
	User pageUser          `json:"user"`
}

type pageUser struct {
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        domainauth.Role `json:"role"`
}

// resourceActions is the view filter's verdict for list-level affordances.
type resourceActions struct {
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

func shellFor(session *domainauth.Session, page string) pageShell {
	return pageShell{
		Page: page,
		Nav:  policy.NavEntries(session.Role),
		User: pageUser{
			Username:    session.SubjectName,
			DisplayName: session.DisplayName,
			Role:        session.Role,
		},
	}
}

func actionsFor(role domainauth.Role, res policy.Resource) resourceActions {
	return resourceActions{
		CanCreate: policy.AllowsAction(role, res, policy.ActionCreate),
		CanEdit:   policy.AllowsAction(role, res, policy.ActionEdit),
		CanDelete: policy.AllowsAction(role, res, policy.ActionDelete),
	}
}

// writePageError handles a backend failure during page assembly. A rejected
// credential means the session was just cleared, so the visitor goes back to
// the login page; everything else surfaces as a JSON error for the shell to
// show.
func (h *PageHandlers) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gateway.ErrCredentialRejected) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	writeGatewayError(w, err)
}

// Dashboard serves the landing page model for both roles.
// GET /.
func (h *PageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	stats, err := h.Gateway.Dashboard.Stats(r.Context())
	if err != nil {
		h.writePageError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		pageShell
		Stats gateway.DashboardStats `json:"stats"`
	}{
		pageShell: shellFor(session, "dashboard"),
		Stats:     stats,
	})
}

// Books serves the catalog management page model.
// GET /books.
func (h *PageHandlers) Books(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	books, err := h.Gateway.Books.List(r.Context())
	if err != nil {
		h.writePageError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		pageShell
		Books   []gateway.Book  `json:"books"`
		Actions resourceActions `json:"actions"`
	}{
		pageShell: shellFor(session, "books"),
		Books:     books,
		Actions:   actionsFor(session.Role, policy.ResourceBooks),
	})
}

// memberRow decorates a backend member with its per-row delete verdict. The
// role table says who may delete members in general; the identity exemption
// pins the seed admin row regardless.
type memberRow struct {
	gateway.Member
	CanDelete bool `json:"can_delete"`
}

// Members serves the member management page model.
// GET /members.
func (h *PageHandlers) Members(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	members, err := h.Gateway.Members.List(r.Context())
	if err != nil {
		h.writePageError(w, r, err)
		return
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{
			Member:    m,
			CanDelete: h.Exceptions.DeleteAllowed(session.Role, policy.ResourceMembers, m.Name),
		})
	}

	WriteJSON(w, http.StatusOK, struct {
		pageShell
		Members []memberRow     `json:"members"`
		Actions resourceActions `json:"actions"`
	}{
		pageShell: shellFor(session, "members"),
		Members:   rows,
		Actions:   actionsFor(session.Role, policy.ResourceMembers),
	})
}

// Loans serves the loan management page model.
// GET /loans.
func (h *PageHandlers) Loans(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	loans, err := h.Gateway.Loans.List(r.Context())
	if err != nil {
		h.writePageError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, struct {
		pageShell
		Loans   []gateway.Loan  `json:"loans"`
		Actions resourceActions `json:"actions"`
	}{
		pageShell: shellFor(session, "loans"),
		Loans:     loans,
		Actions:   actionsFor(session.Role, policy.ResourceLoans),
	})
}

// Profile serves the profile page model from session claims alone.
// GET /profile.
func (h *PageHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	WriteJSON(w, http.StatusOK, shellFor(session, "profile"))
}

// Settings serves the settings page model. The withdraw affordance is hidden
// for the protected seed admin; the backend enforces the same rule.
// GET /settings.
func (h *PageHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	WriteJSON(w, http.StatusOK, struct {
		pageShell
		CanWithdraw bool `json:"can_withdraw"`
	}{
		pageShell:   shellFor(session, "settings"),
		CanWithdraw: !h.Exceptions.IsProtected(session.SubjectName),
	})
}

// AnonymousPage serves the minimal model behind the unauthenticated entry
// pages (login, register, recovery flows).
func AnonymousPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"page": page})
	}
}
