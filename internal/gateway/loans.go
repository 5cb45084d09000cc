package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// LoansAPI covers the backend's /loans surface.
type LoansAPI struct {
	client *Client
}

// LoanStatus enumerates the backend's loan lifecycle states.
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanLost     LoanStatus = "LOST"
)

// Loan mirrors the backend's loan resource. Book and Member come embedded.
type Loan struct {
	ID         int64      `json:"id"`
	Book       Book       `json:"book"`
	Member     Member     `json:"member"`
	LoanDate   string     `json:"loanDate"`
	DueDate    string     `json:"dueDate"`
	ReturnDate string     `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
	OverdueFee float64    `json:"overdueFee"`
	CreatedAt  string     `json:"createdAt"`
	UpdatedAt  string     `json:"updatedAt"`
}

func (l *LoansAPI) List(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	err := l.client.get(ctx, "/loans", nil, &loans)
	return loans, err
}

func (l *LoansAPI) Get(ctx context.Context, id int64) (Loan, error) {
	var loan Loan
	err := l.client.get(ctx, fmt.Sprintf("/loans/%d", id), nil, &loan)
	return loan, err
}

// Create checks out bookID to memberID. The backend takes the pair as query
// parameters rather than a JSON body.
func (l *LoansAPI) Create(ctx context.Context, bookID, memberID int64) (Loan, error) {
	var loan Loan
	query := url.Values{
		"bookId":   {strconv.FormatInt(bookID, 10)},
		"memberId": {strconv.FormatInt(memberID, 10)},
	}
	err := l.client.do(ctx, http.MethodPost, "/loans", query, nil, &loan)
	return loan, err
}

func (l *LoansAPI) Return(ctx context.Context, id int64) (Loan, error) {
	var loan Loan
	err := l.client.put(ctx, fmt.Sprintf("/loans/%d/return", id), nil, &loan)
	return loan, err
}

func (l *LoansAPI) Extend(ctx context.Context, id int64) (Loan, error) {
	var loan Loan
	err := l.client.put(ctx, fmt.Sprintf("/loans/%d/extend", id), nil, &loan)
	return loan, err
}

func (l *LoansAPI) MarkLost(ctx context.Context, id int64) (Loan, error) {
	var loan Loan
	err := l.client.put(ctx, fmt.Sprintf("/loans/%d/lost", id), nil, &loan)
	return loan, err
}

func (l *LoansAPI) Delete(ctx context.Context, id int64) error {
	return l.client.delete(ctx, fmt.Sprintf("/loans/%d", id))
}

func (l *LoansAPI) Overdue(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	err := l.client.get(ctx, "/loans/overdue", nil, &loans)
	return loans, err
}

// ByMember returns a member's full loan history.
func (l *LoansAPI) ByMember(ctx context.Context, memberID int64) ([]Loan, error) {
	var loans []Loan
	err := l.client.get(ctx, fmt.Sprintf("/loans/member/%d/history", memberID), nil, &loans)
	return loans, err
}
