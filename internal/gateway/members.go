package gateway

import (
	"context"
	"fmt"
	"net/url"
)

// MembersAPI covers the backend's /members surface.
type MembersAPI struct {
	client *Client
}

// MemberStatus enumerates the backend's member lifecycle states.
type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberInactive  MemberStatus = "INACTIVE"
)

// Member mirrors the backend's member resource.
type Member struct {
	ID               int64        `json:"id"`
	MemberNumber     string       `json:"memberNumber"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Address          string       `json:"address"`
	Status           MemberStatus `json:"status"`
	RegistrationDate string       `json:"registrationDate"`
	CreatedAt        string       `json:"createdAt"`
	UpdatedAt        string       `json:"updatedAt"`
}

// MemberInput is the create/update payload.
type MemberInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (m *MembersAPI) List(ctx context.Context) ([]Member, error) {
	var members []Member
	err := m.client.get(ctx, "/members", nil, &members)
	return members, err
}

func (m *MembersAPI) Get(ctx context.Context, id int64) (Member, error) {
	var member Member
	err := m.client.get(ctx, fmt.Sprintf("/members/%d", id), nil, &member)
	return member, err
}

func (m *MembersAPI) GetByNumber(ctx context.Context, memberNumber string) (Member, error) {
	var member Member
	err := m.client.get(ctx, "/members/member-number/"+url.PathEscape(memberNumber), nil, &member)
	return member, err
}

func (m *MembersAPI) Search(ctx context.Context, query string) ([]Member, error) {
	var members []Member
	err := m.client.get(ctx, "/members/search", url.Values{"q": {query}}, &members)
	return members, err
}

func (m *MembersAPI) Create(ctx context.Context, in MemberInput) (Member, error) {
	var member Member
	err := m.client.post(ctx, "/members", in, &member)
	return member, err
}

func (m *MembersAPI) Update(ctx context.Context, id int64, in MemberInput) (Member, error) {
	var member Member
	err := m.client.put(ctx, fmt.Sprintf("/members/%d", id), in, &member)
	return member, err
}

func (m *MembersAPI) Delete(ctx context.Context, id int64) error {
	return m.client.delete(ctx, fmt.Sprintf("/members/%d", id))
}
