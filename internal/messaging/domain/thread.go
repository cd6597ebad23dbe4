package domain

import (
	"sort"
	"strings"
)

// ThreadID derives the conversation id for an unordered pair of
// identities: the two uids sorted and joined. Symmetric by construction,
// so both participants resolve the same thread no matter who computes it.
func ThreadID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// NewThread builds the thread record for two participants, keeping the
// participant and email slices aligned with the sorted uid order.
func NewThread(aUID, aEmail, bUID, bEmail string) *Thread {
	if bUID < aUID {
		aUID, bUID = bUID, aUID
		aEmail, bEmail = bEmail, aEmail
	}
	return &Thread{
		ID:                ThreadID(aUID, bUID),
		Participants:      []string{aUID, bUID},
		ParticipantEmails: []string{aEmail, bEmail},
	}
}
