package httpx

import (
	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/policy"
)

// landingPath is where guarded navigation falls back to. The dashboard is the
// one destination every authenticated role may reach.
const landingPath = "/"

// loginPath is where anonymous visitors are sent for protected destinations.
const loginPath = "/login"

// GuardOutcome is the result kind of a navigation decision.
type GuardOutcome int

const (
	// GuardRender lets the destination render.
	GuardRender GuardOutcome = iota
	// GuardRedirect sends the visitor elsewhere; Location carries the target.
	GuardRedirect
)

// GuardResult is one navigation decision.
type GuardResult struct {
	Outcome  GuardOutcome
	Location string
}

// Guard decides what happens when session (nil for anonymous) navigates to
// dest. The rules apply in order and the first match wins:
//
//  1. anonymous-only destination, authenticated visitor: back to the landing
//     page. Login and the recovery flows are pointless with a live session.
//  2. protected destination, anonymous visitor: to the login page.
//  3. protected destination, role not permitted: to the landing page.
//  4. otherwise render.
//
// Unknown destinations carry no permitted roles, so they fall through to
// rule 2 or 3 and never render.
//
// The decision is a pure function of its arguments; every navigation is
// re-evaluated from the restored session with nothing carried over.
func Guard(session *domainauth.Session, dest policy.Destination) GuardResult {
	rule, known := policy.Route(dest)

	if known && rule.AnonymousOnly {
		if session != nil {
			return GuardResult{Outcome: GuardRedirect, Location: landingPath}
		}
		return GuardResult{Outcome: GuardRender}
	}

	if session == nil {
		return GuardResult{Outcome: GuardRedirect, Location: loginPath}
	}

	if !policy.Allows(session.Role, dest) {
		return GuardResult{Outcome: GuardRedirect, Location: landingPath}
	}

	return GuardResult{Outcome: GuardRender}
}
