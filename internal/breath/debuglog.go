package breath

import (
	"fmt"
	"time"
)

func (s *Session) logf(now time.Time, format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", now.Format("15:04:05"), fmt.Sprintf(format, args...))
	s.messages = append(s.messages, msg)
	if over := len(s.messages) - DebugCapacity; over > 0 {
		s.messages = append(s.messages[:0], s.messages[over:]...)
	}
}
