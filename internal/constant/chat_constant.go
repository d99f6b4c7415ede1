package constant

const (
	ChatMessageSenderUser      = "user"
	ChatMessageSenderAssistant = "assistant"

	// Layout for the default title stamped onto new sessions.
	ChatSessionTitleTimeLayout = "2006-01-02 15:04"
	ChatSessionTitlePrefix     = "Chat "

	// Dispatch actions exposed by the chat API.
	ActionGetChats    = "getChats"
	ActionCreateChat  = "createChat"
	ActionGetMessages = "getMessages"
	ActionSendMessage = "sendMessage"
	ActionDeleteChat  = "deleteChat"

	// Settings key holding the encrypted upstream credential.
	SettingUpstreamAPIKey = "hipaai_api_key"
)
