package ws

// client → server
type ControlMessage struct {
	Type string `json:"type"`
	Pin  string `json:"pin,omitempty"`
}

// server → client
type ReplyMessage struct {
	Type    string `json:"type"`
	Pin     string `json:"pin,omitempty"`
	Message string `json:"message,omitempty"`
}
