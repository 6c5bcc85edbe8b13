package types

// TranscriptTurn is one utterance of an interview conversation.
// Turn order is conversation order and is significant. Role is free text and may be empty.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
