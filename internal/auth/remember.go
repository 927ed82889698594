package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"
)

// RememberCookie is the name of the remember-me cookie.
const RememberCookie = "remember_me"

// RememberTTL is how long a remember-me cookie stays valid.
const RememberTTL = 30 * 24 * time.Hour

// RememberCodec issues and verifies remember-me cookie values of the form
//
//	<signature>-<email>
//
// where signature is the hex-encoded HMAC-SHA256 of the email under the
// server secret. Hex never contains '-', so splitting on the first '-' is
// unambiguous even though emails are arbitrary strings.
type RememberCodec struct {
	secret []byte
}

// NewRememberCodec creates a codec from the shared server secret.
func NewRememberCodec(secret string) (*RememberCodec, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: remember-me secret must be at least 16 characters")
	}
	return &RememberCodec{secret: []byte(secret)}, nil
}

// Sign returns the hex HMAC-SHA256 signature of the email.
func (c *RememberCodec) Sign(email string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(email))
	return hex.EncodeToString(mac.Sum(nil))
}

// Issue returns the cookie value for the given email.
func (c *RememberCodec) Issue(email string) string {
	return c.Sign(email) + "-" + email
}

// Decode verifies a cookie value and returns the email it binds. A missing
// separator or a signature mismatch returns ok=false — never an error; the
// caller downgrades to anonymous silently.
func (c *RememberCodec) Decode(value string) (email string, ok bool) {
	i := strings.Index(value, "-")
	if i <= 0 {
		return "", false
	}
	sig, email := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(c.Sign(email))) {
		return "", false
	}
	return email, true
}

// SetRememberCookie writes the remember-me cookie for the email.
func (c *RememberCodec) SetRememberCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    c.Issue(email),
		Path:     "/",
		MaxAge:   int(RememberTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearRememberCookie removes the remember-me cookie.
func ClearRememberCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
