package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// DefaultSessionTitle is the placeholder used until the first user message
// names the session.
const DefaultSessionTitle = "Unnamed session"

// SessionTitleMaxRunes bounds the title derived from the first user message.
const SessionTitleMaxRunes = 50

const GreetingMessage = "Hi, how can I help you with the asset inventory?"

// Embedding entity types stored in the vector index.
const (
	EntityTypeAsset = "asset"
	EntityTypeRoom  = "room"
	EntityTypeUser  = "user"
)
