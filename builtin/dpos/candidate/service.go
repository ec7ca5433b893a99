// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var slotCandidates = thor.BytesToBytes32([]byte("candidates"))

type Service struct {
	candidates *solidity.Mapping[thor.Address, *Candidate]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		candidates: solidity.NewMapping[thor.Address, *Candidate](sctx, slotCandidates),
	}
}

// Get returns the candidate record, a zero one if never initialized.
func (s *Service) Get(addr thor.Address) (*Candidate, error) {
	c, err := s.candidates.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	c.normalize()
	return c, nil
}

// GetInitialized returns the candidate, failing if it was never initialized.
func (s *Service) GetInitialized(addr thor.Address) (*Candidate, error) {
	c, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if !c.Initialized {
		return nil, reverts.ErrCandidateNotInitialized
	}
	return c, nil
}

func (s *Service) Set(addr thor.Address, c *Candidate) error {
	if err := s.candidates.Set(addr, c); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}
