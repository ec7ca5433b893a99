// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var slotDelegations = thor.BytesToBytes32([]byte("delegations"))

type Service struct {
	delegations *solidity.Mapping[thor.Bytes32, *Delegation]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		delegations: solidity.NewMapping[thor.Bytes32, *Delegation](sctx, slotDelegations),
	}
}

func delegationKey(candidate, delegator thor.Address) thor.Bytes32 {
	return thor.Blake2b(candidate.Bytes(), delegator.Bytes())
}

// Get returns the delegation of delegator to candidate, empty if there is none.
func (s *Service) Get(candidate, delegator thor.Address) (*Delegation, error) {
	d, err := s.delegations.Get(delegationKey(candidate, delegator))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation")
	}
	d.normalize()
	return d, nil
}

func (s *Service) Set(candidate, delegator thor.Address, d *Delegation) error {
	if err := s.delegations.Set(delegationKey(candidate, delegator), d); err != nil {
		return errors.Wrap(err, "failed to set delegation")
	}
	return nil
}
