package views

import "github.com/iliyamo/farm-market/internal/model"

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	ChatID       string        `json:"chatId"`
	OtherID      string        `json:"otherId"`
	OtherName    string        `json:"otherName"`
	MessageCount int           `json:"messageCount"`
	Last         model.Message `json:"last"`
}

// Conversations groups the messages userID took part in by chat id. Rows
// are ordered by the first message of each conversation; Last is the latest
// message in storage order.
func Conversations(userID string, msgs []model.Message, users []model.User) []ConversationSummary {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	pos := make(map[string]int)
	out := []ConversationSummary{}
	for _, m := range msgs {
		if !m.Involves(userID) {
			continue
		}
		i, ok := pos[m.ChatID]
		if !ok {
			other := m.Counterpart(userID)
			name, known := names[other]
			if !known {
				name = UnknownUser
				if m.SenderID == other && m.SenderName != "" {
					name = m.SenderName
				}
			}
			out = append(out, ConversationSummary{ChatID: m.ChatID, OtherID: other, OtherName: name})
			i = len(out) - 1
			pos[m.ChatID] = i
		}
		out[i].MessageCount++
		out[i].Last = m
	}
	return out
}
