package translation

import (
	"github.com/leonelquinteros/gotext"
)

// Translate renders a message in the configured notification language.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
