package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldMethod     = "method"
	FieldSkill      = "skill"
	FieldSessionID  = "session_id"
	FieldDurationMs = "duration_ms"
	FieldTransport  = "transport"
)

const (
	EventRequest      = "request"
	EventNotification = "notification"
	EventRequestError = "request_error"
	EventCacheHit     = "cache_hit"
	EventFetch        = "fetch"
	EventFetchFailure = "fetch_failure"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func MethodField(method string) zap.Field {
	return zap.String(FieldMethod, method)
}

func SkillField(skill string) zap.Field {
	return zap.String(FieldSkill, skill)
}

func SessionIDField(sessionID string) zap.Field {
	return zap.String(FieldSessionID, sessionID)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func TransportField(transport string) zap.Field {
	return zap.String(FieldTransport, transport)
}
