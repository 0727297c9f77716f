package chat

import (
	"sort"

	"github.com/jmorales/scout/api"
)

// LoadHistory replaces the store contents with sessions reconstructed from
// persisted query/response records. Records sharing a session id are
// grouped into one session; records without one each become their own
// singleton session. Each record expands into a user message followed by an
// assistant message sharing the record timestamp. The most recently updated
// session becomes current, or none when there is no history.
func (s *Store) LoadHistory(records []api.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string][]api.HistoryRecord)
	var order []string
	for _, rec := range records {
		key := rec.SessionID
		if key == "" {
			key = "single-" + rec.ID
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	sessions := make([]Session, 0, len(order))
	for _, key := range order {
		recs := groups[key]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		})

		messages := make([]Message, 0, 2*len(recs))
		for _, rec := range recs {
			messages = append(messages,
				Message{
					ID:        "msg-db-" + rec.ID + "-user",
					Role:      RoleUser,
					Content:   rec.Query,
					Timestamp: rec.CreatedAt,
				},
				Message{
					ID:        "msg-db-" + rec.ID + "-assistant",
					Role:      RoleAssistant,
					Content:   rec.Response,
					Timestamp: rec.CreatedAt,
				},
			)
		}

		sessions = append(sessions, Session{
			ID:        key,
			Title:     deriveTitle(recs[0].Query),
			Messages:  messages,
			CreatedAt: recs[0].CreatedAt,
			UpdatedAt: recs[len(recs)-1].CreatedAt,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	s.sessions = sessions
	if len(sessions) > 0 {
		s.currentID = sessions[0].ID
	} else {
		s.currentID = ""
	}
}
