package models

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the canonical conversation history entry. All history input
// shapes are normalized into this form at the boundary; nothing downstream
// ever sees the original encoding.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HistoryRecord is the role/content-record history input shape.
type HistoryRecord struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryFromPairs normalizes a [user, assistant] pair-shaped history.
// Empty sides of a pair are skipped.
func HistoryFromPairs(pairs [][2]string) []Message {
	messages := make([]Message, 0, len(pairs)*2)
	for _, pair := range pairs {
		if pair[0] != "" {
			messages = append(messages, Message{Role: RoleUser, Content: pair[0]})
		}
		if pair[1] != "" {
			messages = append(messages, Message{Role: RoleAssistant, Content: pair[1]})
		}
	}
	return messages
}

// HistoryFromRecords normalizes a role/content-record history. Records with
// unknown roles or empty content are skipped.
func HistoryFromRecords(records []HistoryRecord) []Message {
	messages := make([]Message, 0, len(records))
	for _, rec := range records {
		if rec.Content == "" {
			continue
		}
		switch Role(rec.Role) {
		case RoleUser:
			messages = append(messages, Message{Role: RoleUser, Content: rec.Content})
		case RoleAssistant:
			messages = append(messages, Message{Role: RoleAssistant, Content: rec.Content})
		}
	}
	return messages
}
