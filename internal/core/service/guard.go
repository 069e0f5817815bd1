package service

import (
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/routes"
)

// Action is what the guard decided to do with a request.
type Action int

const (
	// ActionWait means hydration has not finished; hold the request instead
	// of redirecting, so a stored session never flashes to "logged out".
	ActionWait Action = iota
	// ActionAllow renders the requested content.
	ActionAllow
	// ActionRedirect sends the visitor elsewhere, optionally with a notice.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionWait:
		return "wait"
	case ActionAllow:
		return "allow"
	default:
		return "redirect"
	}
}

// Decision is the guard's verdict for one (path, session) pair. It is a plain
// value: evaluating the same inputs always yields the same decision, and the
// redirect side effect is applied by the transport layer, not here.
type Decision struct {
	Action   Action
	Target   string
	Severity domain.ToastSeverity
	Notice   string
}

// CoachOnlyNotice is the warning shown when a non-coach hits a coach area.
const CoachOnlyNotice = "Access denied. This area is for coaches only."

// Guard enforces the access policy implied by a route table. It is pure:
// no storage reads, no navigation, no notifications.
type Guard struct {
	table *routes.Table
}

func NewGuard(table *routes.Table) *Guard {
	return &Guard{table: table}
}

// Table exposes the guard's route table for wiring (logout targets, docs).
func (g *Guard) Table() *routes.Table {
	return g.table
}

// Evaluate classifies the path and decides. A redirect whose target is the
// requested path itself degrades to allow; redirecting onto yourself loops.
func (g *Guard) Evaluate(path string, snap domain.SessionSnapshot) (routes.Tier, Decision) {
	tier := g.table.Classify(path)
	d := g.Decide(tier, snap)
	if d.Action == ActionRedirect && d.Target == path {
		d = Decision{Action: ActionAllow}
	}
	return tier, d
}

// Decide maps (tier, session) to a decision:
//
//	hydrating session            → wait, regardless of tier
//	public or registration tier  → allow
//	coach tier, anonymous        → redirect to the public entry
//	coach tier, non-coach user   → redirect to member home + warning notice
//	authenticated tier, anonymous → redirect to the public entry
//	otherwise                    → allow
func (g *Guard) Decide(tier routes.Tier, snap domain.SessionSnapshot) Decision {
	if snap.IsLoading() {
		return Decision{Action: ActionWait}
	}

	switch tier {
	case routes.TierPublic, routes.TierRegistration:
		return Decision{Action: ActionAllow}

	case routes.TierCoach:
		if !snap.IsAuthenticated() {
			return Decision{Action: ActionRedirect, Target: g.table.PublicEntry}
		}
		if !snap.IsCoach() {
			return Decision{
				Action:   ActionRedirect,
				Target:   g.table.MemberHome,
				Severity: domain.ToastWarning,
				Notice:   CoachOnlyNotice,
			}
		}
		return Decision{Action: ActionAllow}

	default: // routes.TierAuthenticated, the fail-closed catch-all
		if !snap.IsAuthenticated() {
			return Decision{Action: ActionRedirect, Target: g.table.PublicEntry}
		}
		return Decision{Action: ActionAllow}
	}
}
