// Package policy holds the declarative per-action permission table.
//
// Every routed action carries a capability set declared statically at the
// routing layer. Evaluation is a pure function of (action, identity state,
// table) — no reflection, no runtime inspection, no per-action special
// cases.
package policy

// Action names a routed controller action. The dispatcher tags each route
// with one of these when the route is declared.
type Action string

// Routed actions.
const (
	ActionHomeIndex     Action = "home.index"
	ActionFeedEveryone  Action = "feed.everyone"
	ActionFeedYou       Action = "feed.you"
	ActionTopicView     Action = "topic.view"
	ActionTopicList     Action = "topic.list"
	ActionTopicNewForm  Action = "topic.newForm"
	ActionTopicCreate   Action = "topic.create"
	ActionTopicFollow   Action = "topic.follow"
	ActionTopicUnfollow Action = "topic.unfollow"
	ActionUpdatePost    Action = "update.post"
	ActionUpdateDelete  Action = "update.delete"
	ActionVoteToggle    Action = "vote.toggle"
	ActionLoginForm     Action = "account.loginForm"
	ActionLogin         Action = "account.login"
	ActionRegisterForm  Action = "account.registerForm"
	ActionRegister      Action = "account.register"
	ActionLogout        Action = "account.logout"
	ActionSettingsForm  Action = "account.settingsForm"
	ActionSettings      Action = "account.settings"
	ActionProfileView   Action = "profile.view"
	ActionProfileTopics Action = "profile.topics"
	ActionProfileEdit   Action = "profile.edit"
	ActionSearch        Action = "search.index"
	ActionMobileToggle  Action = "mobile.toggle"
	ActionAPIToken      Action = "api.token"
)

// Capability is a bit set of policy tags on an action.
type Capability uint8

const (
	// GuestAllowed marks an action reachable without authentication.
	GuestAllowed Capability = 1 << iota
	// UserDenied marks an action forbidden to authenticated users
	// (login and registration forms).
	UserDenied
)

// Table maps actions to capabilities. An action absent from the table has
// the zero capability: authenticated users may reach it, guests may not.
type Table map[Action]Capability

// Default returns the policy table for the application's routes.
func Default() Table {
	return Table{
		ActionHomeIndex:     GuestAllowed,
		ActionFeedEveryone:  GuestAllowed,
		ActionFeedYou:       0,
		ActionTopicView:     GuestAllowed,
		ActionTopicList:     GuestAllowed,
		ActionTopicNewForm:  0,
		ActionTopicCreate:   0,
		ActionTopicFollow:   0,
		ActionTopicUnfollow: 0,
		ActionUpdatePost:    0,
		ActionUpdateDelete:  0,
		ActionVoteToggle:    0,
		ActionLoginForm:     GuestAllowed | UserDenied,
		ActionLogin:         GuestAllowed | UserDenied,
		ActionRegisterForm:  GuestAllowed | UserDenied,
		ActionRegister:      GuestAllowed | UserDenied,
		ActionLogout:        0,
		ActionSettingsForm:  0,
		ActionSettings:      0,
		ActionProfileView:   GuestAllowed,
		ActionProfileTopics: GuestAllowed,
		ActionProfileEdit:   0,
		ActionSearch:        GuestAllowed,
		ActionMobileToggle:  GuestAllowed,
		ActionAPIToken:      GuestAllowed,
	}
}

// Decision is the outcome of evaluating an action against an identity.
type Decision int

const (
	// Allow lets the action body run.
	Allow Decision = iota
	// DenyToLogin redirects an anonymous caller to the login view, with
	// the originally requested URL preserved for post-login replay.
	DenyToLogin
	// DenyToHome redirects an authenticated caller off a user-denied
	// action to the default feed.
	DenyToHome
)

// Evaluate returns the decision for an action given whether the caller is
// authenticated. Authenticated callers are denied user-denied actions;
// anonymous callers are denied anything not guest-allowed.
func (t Table) Evaluate(action Action, authenticated bool) Decision {
	caps := t[action]
	if authenticated {
		if caps&UserDenied != 0 {
			return DenyToHome
		}
		return Allow
	}
	if caps&GuestAllowed != 0 {
		return Allow
	}
	return DenyToLogin
}
