// Package i18n provides keyed message lookup for user-facing text.
//
// The catalog is plain configuration data. All user-facing failures are
// expressed through these keys, never through raw error text.
package i18n

import "fmt"

// catalog maps message keys to English templates. Additional languages would
// add catalogs keyed by language code; lookup stays the same.
var catalog = map[string]string{
	"form.emptyField":     "Please fill out all required fields.",
	"form.badEmail":       "%s is not a valid email address.",
	"form.emailUsed":      "%s is already associated with an account.",
	"form.badUrl":         "That doesn't look like a valid URL.",
	"form.badPassword":    "Your old password is incorrect.",
	"form.badTopicName":   "Topic names may only contain letters, numbers, and spaces.",
	"login.loginRequired": "You must be logged in to do that.",
	"login.incorrect":     "Incorrect email address or password.",
	"register.emailUsed":  "%s is already registered.",
	"topic.exists":        "That topic already exists.",
	"topic.notFound":      "We couldn't find that topic.",
	"topic.updateAdded":   "Your update has been posted.",
	"update.notFound":     "We couldn't find that update.",
	"update.notYours":     "Only the author can delete an update.",
	"profile.notFound":    "We couldn't find that user.",
	"action.saved":        "Saved.",
}

// Get returns the message for key, formatted with args. Unknown keys return
// the key itself so a missing catalog entry is visible rather than silent.
func Get(key string, args ...any) string {
	msg, ok := catalog[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
