// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/solo"
)

// EventMessage is one engine event pushed to a subscriber.
type EventMessage struct {
	BlockNumber uint32       `json:"blockNumber"`
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Data        events.Event `json:"data"`
}

func convertEvent(r solo.Record) *EventMessage {
	return &EventMessage{
		BlockNumber: r.BlockNumber,
		Index:       r.Index,
		Name:        r.Name,
		Data:        r.Event,
	}
}

// EventFilter selects events by name. An empty name matches every event.
type EventFilter struct {
	Name string
}

func (f *EventFilter) Match(r solo.Record) bool {
	return f == nil || f.Name == "" || f.Name == r.Name
}
