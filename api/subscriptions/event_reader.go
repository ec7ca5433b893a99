// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/solo"
)

var errPruned = errors.New("events of block are no longer retained")

type eventReader struct {
	host   *solo.Solo
	filter *EventFilter
	next   uint32
}

func newEventReader(host *solo.Solo, position uint32, filter *EventFilter) *eventReader {
	return &eventReader{
		host:   host,
		filter: filter,
		next:   position,
	}
}

// Read returns the matching events of every block committed since the last read.
// The bool result reports whether any block was consumed.
func (er *eventReader) Read() ([]any, bool, error) {
	head := er.host.Head()
	if er.next > head {
		return nil, false, nil
	}
	var msgs []any
	for ; er.next <= head; er.next++ {
		records, ok := er.host.Events(er.next)
		if !ok {
			return nil, false, errors.WithMessagef(errPruned, "block %d", er.next)
		}
		for _, r := range records {
			if er.filter.Match(r) {
				msgs = append(msgs, convertEvent(r))
			}
		}
	}
	return msgs, true, nil
}
