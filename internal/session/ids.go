package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 5

// NewConversationID returns base36 unix millis followed by a short random
// suffix, so ids sort roughly by creation time and do not collide within a
// millisecond.
func NewConversationID() string {
	prefix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
	return prefix + suffix
}
