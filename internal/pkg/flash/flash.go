// Package flash implements one-shot user-facing messages that survive a
// redirect. The message rides in a short-lived cookie and is cleared the
// first time it is read.
package flash

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
)

const cookieName = "cd_flash"

// Message kinds, used by templates to pick the alert style.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Message is a one-shot notification for the next rendered page.
type Message struct {
	Kind string
	Text string
}

// Set stores a flash message for the next request.
func Set(c *gin.Context, kind, text string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "\x00" + text))
	c.SetCookie(cookieName, value, 300, "/", "", false, true)
}

// Success stores a success flash message.
func Success(c *gin.Context, text string) {
	Set(c, KindSuccess, text)
}

// Error stores an error flash message.
func Error(c *gin.Context, text string) {
	Set(c, KindError, text)
}

// Take returns the pending flash message, if any, and clears it.
func Take(c *gin.Context) (Message, bool) {
	value, err := c.Cookie(cookieName)
	if err != nil || value == "" {
		return Message{}, false
	}

	// Clear regardless of whether the payload decodes.
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Message{}, false
	}

	kind, text, found := strings.Cut(string(decoded), "\x00")
	if !found {
		return Message{}, false
	}
	return Message{Kind: kind, Text: text}, true
}
