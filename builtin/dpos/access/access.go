// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access holds the owner, the pause switch and the candidate whitelist.
package access

import (
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var (
	slotOwner            = thor.BytesToBytes32([]byte("access-owner"))
	slotPaused           = thor.BytesToBytes32([]byte("access-paused"))
	slotWhitelistEnabled = thor.BytesToBytes32([]byte("access-whitelist-enabled"))
	slotWhitelist        = thor.BytesToBytes32([]byte("access-whitelist"))
)

type Service struct {
	owner            *solidity.Address
	paused           *solidity.Bool
	whitelistEnabled *solidity.Bool
	whitelist        *solidity.Mapping[thor.Address, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		owner:            solidity.NewAddress(sctx, slotOwner),
		paused:           solidity.NewBool(sctx, slotPaused),
		whitelistEnabled: solidity.NewBool(sctx, slotWhitelistEnabled),
		whitelist:        solidity.NewMapping[thor.Address, bool](sctx, slotWhitelist),
	}
}

func (s *Service) Owner() (thor.Address, error) {
	return s.owner.Get()
}

// SetOwner is called once at genesis.
func (s *Service) SetOwner(owner thor.Address) {
	s.owner.Set(&owner)
}

func (s *Service) OnlyOwner(caller thor.Address) error {
	owner, err := s.owner.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get owner")
	}
	if owner != caller {
		return reverts.ErrNotOwner
	}
	return nil
}

func (s *Service) IsPaused() (bool, error) {
	return s.paused.Get()
}

func (s *Service) WhenNotPaused() error {
	paused, err := s.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

func (s *Service) WhenPaused() error {
	paused, err := s.paused.Get()
	if err != nil {
		return err
	}
	if !paused {
		return reverts.ErrNotPaused
	}
	return nil
}

func (s *Service) Pause(caller thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if err := s.WhenNotPaused(); err != nil {
		return err
	}
	s.paused.Set(true)
	return nil
}

func (s *Service) Unpause(caller thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if err := s.WhenPaused(); err != nil {
		return err
	}
	s.paused.Set(false)
	return nil
}

func (s *Service) IsWhitelistEnabled() (bool, error) {
	return s.whitelistEnabled.Get()
}

func (s *Service) UpdateEnableWhitelist(caller thor.Address, enabled bool) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	s.whitelistEnabled.Set(enabled)
	return nil
}

func (s *Service) IsWhitelisted(account thor.Address) (bool, error) {
	ok, err := s.whitelist.Get(account)
	if err != nil {
		return false, errors.Wrap(err, "failed to get whitelist entry")
	}
	return ok, nil
}

func (s *Service) AddWhitelisted(caller, account thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	return s.whitelist.Set(account, true)
}

func (s *Service) RemoveWhitelisted(caller, account thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	s.whitelist.Delete(account)
	return nil
}

// CheckWhitelisted fails for a non-whitelisted account while the whitelist is enabled.
func (s *Service) CheckWhitelisted(account thor.Address) error {
	enabled, err := s.whitelistEnabled.Get()
	if err != nil || !enabled {
		return err
	}
	ok, err := s.IsWhitelisted(account)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrNotWhitelisted
	}
	return nil
}
