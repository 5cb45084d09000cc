package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/policy"
)

// APIHandlers proxies the backend resource surface for the page scripts.
// The guard middleware has already vetted role access by the time these run;
// the handlers only translate requests and map failures.
type APIHandlers struct {
	Gateway    *gateway.Client
	Exceptions policy.IdentityExceptions
	Logger     *slog.Logger
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_id",
			Err:     errors.New("identifier must be a positive integer"),
		})
		return 0, false
	}
	return id, true
}

func writeProxied[T any](w http.ResponseWriter, result T, err error) {
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// ListBooks handles GET /api/books, with optional ?keyword= search.
func (h *APIHandlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	if keyword := r.URL.Query().Get("keyword"); keyword != "" {
		books, err := h.Gateway.Books.Search(r.Context(), keyword)
		writeProxied(w, books, err)
		return
	}
	books, err := h.Gateway.Books.List(r.Context())
	writeProxied(w, books, err)
}

// GetBook handles GET /api/books/{id}.
func (h *APIHandlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	book, err := h.Gateway.Books.Get(r.Context(), id)
	writeProxied(w, book, err)
}

// BookAvailability handles GET /api/books/{id}/availability.
func (h *APIHandlers) BookAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	avail, err := h.Gateway.Books.Availability(r.Context(), id)
	writeProxied(w, avail, err)
}

// CreateBook handles POST /api/books.
func (h *APIHandlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	var in gateway.BookInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	book, err := h.Gateway.Books.Create(r.Context(), in)
	writeProxied(w, book, err)
}

// UpdateBook handles PUT /api/books/{id}.
func (h *APIHandlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in gateway.BookInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	book, err := h.Gateway.Books.Update(r.Context(), id, in)
	writeProxied(w, book, err)
}

// DeleteBook handles DELETE /api/books/{id}.
func (h *APIHandlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gateway.Books.Delete(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListMembers handles GET /api/members, with optional ?q= search.
func (h *APIHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		members, err := h.Gateway.Members.Search(r.Context(), q)
		writeProxied(w, members, err)
		return
	}
	members, err := h.Gateway.Members.List(r.Context())
	writeProxied(w, members, err)
}

// GetMember handles GET /api/members/{id}.
func (h *APIHandlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	member, err := h.Gateway.Members.Get(r.Context(), id)
	writeProxied(w, member, err)
}

// GetMemberByNumber handles GET /api/members/member-number/{memberNumber}.
func (h *APIHandlers) GetMemberByNumber(w http.ResponseWriter, r *http.Request) {
	member, err := h.Gateway.Members.GetByNumber(r.Context(), r.PathValue("memberNumber"))
	writeProxied(w, member, err)
}

// CreateMember handles POST /api/members.
func (h *APIHandlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var in gateway.MemberInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	member, err := h.Gateway.Members.Create(r.Context(), in)
	writeProxied(w, member, err)
}

// UpdateMember handles PUT /api/members/{id}.
func (h *APIHandlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in gateway.MemberInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	member, err := h.Gateway.Members.Update(r.Context(), id, in)
	writeProxied(w, member, err)
}

// DeleteMember handles DELETE /api/members/{id}. The protected seed identity
// is refused here before the backend is asked; the same rule hides the
// delete affordance in the members page model.
func (h *APIHandlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	member, err := h.Gateway.Members.Get(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if h.Exceptions.IsProtected(member.Name) {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "protected_identity",
			Err:     errors.New("this account cannot be deleted"),
		})
		return
	}

	if err := h.Gateway.Members.Delete(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListLoans handles GET /api/loans.
func (h *APIHandlers) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.Gateway.Loans.List(r.Context())
	writeProxied(w, loans, err)
}

// GetLoan handles GET /api/loans/{id}.
func (h *APIHandlers) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	loan, err := h.Gateway.Loans.Get(r.Context(), id)
	writeProxied(w, loan, err)
}

// CreateLoan handles POST /api/loans.
func (h *APIHandlers) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BookID   int64 `json:"bookId"`
		MemberID int64 `json:"memberId"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	if in.BookID <= 0 || in.MemberID <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_loan",
			Err:     errors.New("bookId and memberId are required"),
		})
		return
	}
	loan, err := h.Gateway.Loans.Create(r.Context(), in.BookID, in.MemberID)
	writeProxied(w, loan, err)
}

// ReturnLoan handles PUT /api/loans/{id}/return.
func (h *APIHandlers) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	loan, err := h.Gateway.Loans.Return(r.Context(), id)
	writeProxied(w, loan, err)
}

// ExtendLoan handles PUT /api/loans/{id}/extend.
func (h *APIHandlers) ExtendLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	loan, err := h.Gateway.Loans.Extend(r.Context(), id)
	writeProxied(w, loan, err)
}

// MarkLoanLost handles PUT /api/loans/{id}/lost.
func (h *APIHandlers) MarkLoanLost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	loan, err := h.Gateway.Loans.MarkLost(r.Context(), id)
	writeProxied(w, loan, err)
}

// DeleteLoan handles DELETE /api/loans/{id}.
func (h *APIHandlers) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gateway.Loans.Delete(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// OverdueLoans handles GET /api/loans/overdue.
func (h *APIHandlers) OverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.Gateway.Loans.Overdue(r.Context())
	writeProxied(w, loans, err)
}

// LoansByMember handles GET /api/loans/member/{memberId}.
func (h *APIHandlers) LoansByMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "memberId")
	if !ok {
		return
	}
	loans, err := h.Gateway.Loans.ByMember(r.Context(), id)
	writeProxied(w, loans, err)
}

// DashboardStats handles GET /api/dashboard/stats.
func (h *APIHandlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Gateway.Dashboard.Stats(r.Context())
	writeProxied(w, stats, err)
}

// DashboardRecentLoans handles GET /api/dashboard/recent-loans.
func (h *APIHandlers) DashboardRecentLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.Gateway.Dashboard.RecentLoans(r.Context(), queryLimit(r))
	writeProxied(w, loans, err)
}

// DashboardPopularBooks handles GET /api/dashboard/popular-books.
func (h *APIHandlers) DashboardPopularBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.Gateway.Dashboard.PopularBooks(r.Context(), queryLimit(r))
	writeProxied(w, books, err)
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}
