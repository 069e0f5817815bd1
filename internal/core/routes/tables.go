package routes

// ConsumerTable is the route table for the member-facing workout app. The
// bare /coach prefix is public because /coach/<slug> serves a coach's public
// landing page; only /coach/dashboard and the top-level /dashboard require
// the coach role.
func ConsumerTable() *Table {
	return &Table{
		App:         "consumer",
		PublicEntry: "/onboarding",
		MemberHome:  "/",
		Patterns: []Pattern{
			{Path: "/", Exact: true, Tier: TierPublic},
			{Path: "/onboarding", Tier: TierPublic},
			{Path: "/auth", Tier: TierPublic},
			{Path: "/login", Tier: TierPublic},
			{Path: "/payment", Tier: TierPublic},
			{Path: "/client", Tier: TierPublic},
			{Path: "/coach", Tier: TierPublic},
			{Path: "/coach/login", Tier: TierPublic},
			{Path: "/coach/dashboard", Tier: TierCoach},
			{Path: "/coach/register", Tier: TierRegistration},
			{Path: "/coach/onboarding", Tier: TierRegistration},
			{Path: "/dashboard", Tier: TierCoach},
			{Path: "/registration", Tier: TierRegistration},
			{Path: "/register", Tier: TierRegistration},
			{Path: "/signup", Tier: TierRegistration},
			{Path: "/success", Tier: TierRegistration},
		},
	}
}

// DashboardTable is the route table for the standalone coach dashboard app.
// Everything it serves is coach territory apart from its login page.
func DashboardTable() *Table {
	return &Table{
		App:         "dashboard",
		PublicEntry: "/login",
		MemberHome:  "/login",
		Patterns: []Pattern{
			{Path: "/", Exact: true, Tier: TierCoach},
			{Path: "/login", Tier: TierPublic},
			{Path: "/videos", Tier: TierCoach},
			{Path: "/challenges", Tier: TierCoach},
			{Path: "/live", Tier: TierCoach},
			{Path: "/members", Tier: TierCoach},
			{Path: "/memberships", Tier: TierCoach},
			{Path: "/landing", Tier: TierCoach},
			{Path: "/profile", Tier: TierCoach},
		},
	}
}

// ByName resolves a table from configuration. Unknown names fall back to the
// consumer table.
func ByName(name string) *Table {
	if name == "dashboard" {
		return DashboardTable()
	}
	return ConsumerTable()
}
