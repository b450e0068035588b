package domain

import (
	"sort"
	"time"
)

// ResponsePair is one matched customer-message / agent-reply cycle for an
// entity. ResponseMinutes is measured between the business-hours adjusted
// timestamps, so it can be zero but never negative.
type ResponsePair struct {
	EntityID          int64   `json:"entity_id"`
	IncomingAt        int64   `json:"incoming_at"`
	OutgoingAt        int64   `json:"outgoing_at"`
	ResponseMinutes   float64 `json:"response_minutes"`
	ResponsibleUserID int64   `json:"responsible_user_id"`
}

// PairEntity reconstructs the response pairs for a single entity.
//
// Incoming and outgoing messages are walked in timestamp order with a
// cursor over the outgoing list: each incoming message consumes the first
// outgoing message strictly after it that no earlier incoming message has
// claimed. Once the outgoing list is exhausted the remaining incoming
// messages are left unanswered and yield no pairs.
//
// Attribution uses the last ownership change at or before the incoming
// message; when the entity has no ownership history that early, the pair
// falls back to the actor of the outgoing message.
func PairEntity(entityID int64, incoming, outgoing []Event, ownership []OwnershipChange, schedule *Schedule) []ResponsePair {
	if len(incoming) == 0 || len(outgoing) == 0 {
		return nil
	}

	in := make([]Event, len(incoming))
	copy(in, incoming)
	sort.Slice(in, func(i, j int) bool { return in[i].CreatedAt < in[j].CreatedAt })

	out := make([]Event, len(outgoing))
	copy(out, outgoing)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })

	pairs := make([]ResponsePair, 0, len(in))
	cursor := 0

	for _, message := range in {
		// A reply sent at or before the message cannot answer it
		for cursor < len(out) && out[cursor].CreatedAt <= message.CreatedAt {
			cursor++
		}
		if cursor >= len(out) {
			break
		}

		reply := out[cursor]
		cursor++

		adjustedIn := schedule.AdvanceToBusinessInstant(time.Unix(message.CreatedAt, 0))
		adjustedOut := schedule.AdvanceToBusinessInstant(time.Unix(reply.CreatedAt, 0))
		minutes := adjustedOut.Sub(adjustedIn).Minutes()
		if minutes < 0 {
			minutes = 0
		}

		pairs = append(pairs, ResponsePair{
			EntityID:          entityID,
			IncomingAt:        message.CreatedAt,
			OutgoingAt:        reply.CreatedAt,
			ResponseMinutes:   minutes,
			ResponsibleUserID: responsibleAt(ownership, message.CreatedAt, reply.ActorID),
		})
	}

	return pairs
}

// responsibleAt finds the user that owned the entity when the customer
// wrote in: the last ownership change with At <= at, or fallback when the
// history is empty or starts later.
func responsibleAt(ownership []OwnershipChange, at int64, fallback int64) int64 {
	responsible := fallback
	for _, change := range ownership {
		if change.At > at {
			break
		}
		responsible = change.UserID
	}
	return responsible
}
