package server

import (
	"crypto/subtle"
	"net/http"
)

const passwordHeader = "X-Arena-Password"

// Authorized checks a websocket join request against the configured
// password. An empty password admits everyone. The password may come in
// the X-Arena-Password header or the "password" query parameter, since
// browsers cannot set headers on websocket upgrades.
func Authorized(expected string, r *http.Request) bool {
	if expected == "" {
		return true
	}
	got := r.Header.Get(passwordHeader)
	if got == "" {
		got = r.URL.Query().Get("password")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
