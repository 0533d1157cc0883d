package domain

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeAudio MessageType = "audio"
)

// InboundMessage is the transport-agnostic shape of one received chat
// message. Text carries the body for text messages; MediaID identifies the
// audio object for voice messages.
type InboundMessage struct {
	SenderID  string
	MessageID string
	Type      MessageType
	Text      string
	MediaID   string
}
