// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgnlabs/dpos/thor"
)

func TestLogKeepsOrder(t *testing.T) {
	var l Log
	assert.Equal(t, 0, l.Len())

	cand := thor.BytesToAddress([]byte("cand"))
	l.Emit(&ValidatorChange{Validator: cand, ChangeType: ValidatorRemoval})
	l.Emit(&IntendWithdraw{Candidate: cand, WithdrawAmount: big.NewInt(80)})
	l.Emit(&Compensate{Amount: big.NewInt(1)})

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"ValidatorChange", "IntendWithdraw", "Compensate"}, Names(l.Events()))
}

func TestValidatorChangeType(t *testing.T) {
	assert.Equal(t, "add", ValidatorAdd.String())
	assert.Equal(t, "removal", ValidatorRemoval.String())
}
