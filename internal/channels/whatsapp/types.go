package whatsapp

// WebhookEvent is the top-level structure received from Meta's webhook.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents a single entry in the webhook payload.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps one value object inside an entry.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the messages delivered by one change.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Messages         []Message `json:"messages"`
}

// Metadata identifies the business phone number the batch was delivered to.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Message is a single inbound message event.
type Message struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
}

// Text contains the message body for text messages.
type Text struct {
	Body string `json:"body"`
}

// InboundMessage is a parsed inbound message handed to the bot.
type InboundMessage struct {
	From string
	Body string
}

// SendRequest is the payload posted to the Graph API send endpoint.
type SendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             SendText `json:"text"`
}

// SendText is the text body of an outbound message.
type SendText struct {
	Body string `json:"body"`
}

// SendResponse is the Graph API response to a send request.
type SendResponse struct {
	Messages []SentMessage `json:"messages"`
	Error    *APIError     `json:"error,omitempty"`
}

// SentMessage identifies one accepted outbound message.
type SentMessage struct {
	ID string `json:"id"`
}

// APIError is the Graph API error envelope.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
