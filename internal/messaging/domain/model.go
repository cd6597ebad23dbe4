package domain

import "time"

// Thread is the conversation record shared by exactly two identities. Its
// id is derived from the participant pair, so either side can resolve it
// without a directory lookup.
type Thread struct {
	ID                string    `json:"id"`
	Participants      []string  `json:"participants"`
	ParticipantEmails []string  `json:"participantEmails"`
	CreatedAt         time.Time `json:"createdAt"`
}

// HasParticipant reports whether uid is one of the two participants.
func (t *Thread) HasParticipant(uid string) bool {
	for _, p := range t.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Other returns the participant that is not uid, with its email.
func (t *Thread) Other(uid string) (string, string) {
	for i, p := range t.Participants {
		if p != uid {
			email := ""
			if i < len(t.ParticipantEmails) {
				email = t.ParticipantEmails[i]
			}
			return p, email
		}
	}
	return "", ""
}

// Message is one entry in a thread's append-only log, ordered by
// CreatedAt ascending.
type Message struct {
	ID            string    `json:"id"`
	ThreadID      string    `json:"threadId"`
	SenderID      string    `json:"senderId"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverID    string    `json:"receiverId"`
	ReceiverEmail string    `json:"receiverEmail"`
	Body          string    `json:"message"`
	CreatedAt     time.Time `json:"timestampCreatedAt"`
}
