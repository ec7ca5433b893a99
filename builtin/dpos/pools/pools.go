// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pools tracks the reward pools, the redeemed reward high-water marks,
// subscriptions and used penalty nonces.
package pools

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var (
	slotMiningPool      = thor.BytesToBytes32([]byte("pools-mining"))
	slotServicePool     = thor.BytesToBytes32([]byte("pools-service"))
	slotRedeemedMining  = thor.BytesToBytes32([]byte("pools-redeemed-mining"))
	slotRedeemedService = thor.BytesToBytes32([]byte("pools-redeemed-service"))
	slotSubscriptions   = thor.BytesToBytes32([]byte("pools-subscriptions"))
	slotUsedNonces      = thor.BytesToBytes32([]byte("pools-used-nonces"))
	slotCompanion       = thor.BytesToBytes32([]byte("pools-companion"))
)

type nonceKey uint64

func (n nonceKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	return b[:]
}

type Service struct {
	miningPool      *solidity.Uint256
	servicePool     *solidity.Uint256
	redeemedMining  *solidity.Mapping[thor.Address, *big.Int]
	redeemedService *solidity.Mapping[thor.Address, *big.Int]
	subscriptions   *solidity.Mapping[thor.Address, *big.Int]
	usedNonces      *solidity.Mapping[nonceKey, bool]
	companion       *solidity.Address
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		miningPool:      solidity.NewUint256(sctx, slotMiningPool),
		servicePool:     solidity.NewUint256(sctx, slotServicePool),
		redeemedMining:  solidity.NewMapping[thor.Address, *big.Int](sctx, slotRedeemedMining),
		redeemedService: solidity.NewMapping[thor.Address, *big.Int](sctx, slotRedeemedService),
		subscriptions:   solidity.NewMapping[thor.Address, *big.Int](sctx, slotSubscriptions),
		usedNonces:      solidity.NewMapping[nonceKey, bool](sctx, slotUsedNonces),
		companion:       solidity.NewAddress(sctx, slotCompanion),
	}
}

func (s *Service) MiningPool() (*big.Int, error) {
	return s.miningPool.Get()
}

func (s *Service) ServicePool() (*big.Int, error) {
	return s.servicePool.Get()
}

func (s *Service) AddMining(amount *big.Int) error {
	return s.miningPool.Add(amount)
}

// Subscribe credits the service pool and records the subscriber's deposit.
func (s *Service) Subscribe(consumer thor.Address, amount *big.Int) error {
	if err := s.servicePool.Add(amount); err != nil {
		return err
	}
	deposit, err := s.SubscriptionDeposit(consumer)
	if err != nil {
		return err
	}
	if err := s.subscriptions.Set(consumer, deposit.Add(deposit, amount)); err != nil {
		return errors.Wrap(err, "failed to set subscription deposit")
	}
	return nil
}

// AddService credits the service pool without a subscriber, e.g. from a slash.
func (s *Service) AddService(amount *big.Int) error {
	return s.servicePool.Add(amount)
}

func (s *Service) SubscriptionDeposit(consumer thor.Address) (*big.Int, error) {
	v, err := s.subscriptions.Get(consumer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get subscription deposit")
	}
	return v, nil
}

// Redeemed returns the cumulative mining and service rewards already paid to receiver.
func (s *Service) Redeemed(receiver thor.Address) (*big.Int, *big.Int, error) {
	mining, err := s.redeemedMining.Get(receiver)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get redeemed mining reward")
	}
	service, err := s.redeemedService.Get(receiver)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get redeemed service reward")
	}
	return mining, service, nil
}

// Redeem raises the high-water marks of receiver to the given cumulative values and
// takes the deltas out of the pools. It returns the deltas to pay.
func (s *Service) Redeem(receiver thor.Address, cumulativeMining, cumulativeService *big.Int) (*big.Int, *big.Int, error) {
	redeemedMining, redeemedService, err := s.Redeemed(receiver)
	if err != nil {
		return nil, nil, err
	}
	deltaMining := new(big.Int).Sub(cumulativeMining, redeemedMining)
	deltaService := new(big.Int).Sub(cumulativeService, redeemedService)
	if deltaMining.Sign() < 0 || deltaService.Sign() < 0 {
		return nil, nil, reverts.ErrRewardNotMonotonic
	}

	if err := s.miningPool.Sub(deltaMining); err != nil {
		if errors.Is(err, solidity.ErrUnderflow) {
			return nil, nil, reverts.ErrInsufficientMining
		}
		return nil, nil, err
	}
	if err := s.servicePool.Sub(deltaService); err != nil {
		if errors.Is(err, solidity.ErrUnderflow) {
			return nil, nil, reverts.ErrInsufficientService
		}
		return nil, nil, err
	}

	if err := s.redeemedMining.Set(receiver, new(big.Int).Set(cumulativeMining)); err != nil {
		return nil, nil, errors.Wrap(err, "failed to set redeemed mining reward")
	}
	if err := s.redeemedService.Set(receiver, new(big.Int).Set(cumulativeService)); err != nil {
		return nil, nil, errors.Wrap(err, "failed to set redeemed service reward")
	}
	return deltaMining, deltaService, nil
}

func (s *Service) IsNonceUsed(nonce uint64) (bool, error) {
	used, err := s.usedNonces.Get(nonceKey(nonce))
	if err != nil {
		return false, errors.Wrap(err, "failed to get nonce")
	}
	return used, nil
}

// UseNonce marks nonce as consumed, failing if it already was.
func (s *Service) UseNonce(nonce uint64) error {
	used, err := s.IsNonceUsed(nonce)
	if err != nil {
		return err
	}
	if used {
		return reverts.ErrUsedNonce
	}
	return s.usedNonces.Set(nonceKey(nonce), true)
}

// Companion returns the address of the reward registry allowed to redeem mining rewards.
func (s *Service) Companion() (thor.Address, error) {
	return s.companion.Get()
}

func (s *Service) SetCompanion(addr thor.Address) {
	s.companion.Set(&addr)
}
