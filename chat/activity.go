package chat

import (
	"github.com/jmorales/scout/api"
)

// ActivityStatus is the lifecycle of a research tool during one streamed
// query
type ActivityStatus string

const (
	StatusWaiting ActivityStatus = "waiting"
	StatusActive  ActivityStatus = "active"
	StatusDone    ActivityStatus = "done"
)

// Activity is the per-tool progress shown while a streamed answer is being
// produced. It is derived from the event sequence and never persisted.
type Activity struct {
	Tool   string
	Status ActivityStatus
}

// KnownTools are the research tools the backend reports progress for
var KnownTools = []string{"google_search", "arxiv_search"}

// InitialActivities returns the waiting set shown before any tool reports
func InitialActivities() []Activity {
	out := make([]Activity, len(KnownTools))
	for i, tool := range KnownTools {
		out[i] = Activity{Tool: tool, Status: StatusWaiting}
	}
	return out
}

// ApplyEvent folds one stream event into the activity list. tool_start
// marks the tool active, tool_complete marks it done; tools not seen before
// are appended. Other event types leave the list unchanged.
func ApplyEvent(activities []Activity, event api.StreamEvent) []Activity {
	var status ActivityStatus
	switch event.Type {
	case api.EventToolStart:
		status = StatusActive
	case api.EventToolComplete:
		status = StatusDone
	default:
		return activities
	}
	if event.Tool == "" {
		return activities
	}

	out := make([]Activity, len(activities))
	copy(out, activities)
	for i := range out {
		if out[i].Tool == event.Tool {
			out[i].Status = status
			return out
		}
	}
	return append(out, Activity{Tool: event.Tool, Status: status})
}
