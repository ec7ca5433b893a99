// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package request defines the signed slashing and reward messages and their wire encoding.
package request

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/thor"
)

// AccountAmtPair is an (account, amount) entry of a penalty.
type AccountAmtPair struct {
	Account thor.Address
	Amt     *big.Int
}

// Penalty describes stakes to slash and who receives them.
type Penalty struct {
	Nonce               uint64
	ExpireTime          uint64
	ValidatorAddress    thor.Address
	PenalizedDelegators []AccountAmtPair
	Beneficiaries       []AccountAmtPair
}

// PenaltyRequest carries an encoded Penalty and the validator signatures over it.
type PenaltyRequest struct {
	Penalty []byte
	Sigs    [][]byte
}

// Reward is the cumulative reward a receiver is entitled to.
type Reward struct {
	Receiver                thor.Address
	CumulativeMiningReward  *big.Int
	CumulativeServiceReward *big.Int
}

// RewardRequest carries an encoded Reward and the validator signatures over it.
type RewardRequest struct {
	Reward []byte
	Sigs   [][]byte
}

// SigningHash returns the hash validators sign for an encoded inner message,
// in the Ethereum signed-message form.
func SigningHash(inner []byte) thor.Bytes32 {
	h := thor.Keccak256(inner)
	return thor.BytesToBytes32(accounts.TextHash(h[:]))
}

// DecodePenaltyRequest decodes the outer request and its penalty.
func DecodePenaltyRequest(data []byte) (*PenaltyRequest, *Penalty, error) {
	var req PenaltyRequest
	if err := rlp.DecodeBytes(data, &req); err != nil {
		return nil, nil, errors.Wrap(err, "decode penalty request")
	}
	var p Penalty
	if err := rlp.DecodeBytes(req.Penalty, &p); err != nil {
		return nil, nil, errors.Wrap(err, "decode penalty")
	}
	for _, pair := range append(append([]AccountAmtPair{}, p.PenalizedDelegators...), p.Beneficiaries...) {
		if pair.Amt == nil {
			return nil, nil, errors.New("decode penalty: missing amount")
		}
	}
	return &req, &p, nil
}

// DecodeRewardRequest decodes the outer request and its reward.
func DecodeRewardRequest(data []byte) (*RewardRequest, *Reward, error) {
	var req RewardRequest
	if err := rlp.DecodeBytes(data, &req); err != nil {
		return nil, nil, errors.Wrap(err, "decode reward request")
	}
	var r Reward
	if err := rlp.DecodeBytes(req.Reward, &r); err != nil {
		return nil, nil, errors.Wrap(err, "decode reward")
	}
	if r.CumulativeMiningReward == nil || r.CumulativeServiceReward == nil {
		return nil, nil, errors.New("decode reward: missing amount")
	}
	return &req, &r, nil
}

// SignPenalty encodes p and signs it with every key, in order.
func SignPenalty(p *Penalty, keys ...*ecdsa.PrivateKey) ([]byte, error) {
	inner, err := rlp.EncodeToBytes(p)
	if err != nil {
		return nil, errors.Wrap(err, "encode penalty")
	}
	sigs, err := signAll(inner, keys)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(&PenaltyRequest{Penalty: inner, Sigs: sigs})
}

// SignReward encodes r and signs it with every key, in order.
func SignReward(r *Reward, keys ...*ecdsa.PrivateKey) ([]byte, error) {
	inner, err := rlp.EncodeToBytes(r)
	if err != nil {
		return nil, errors.Wrap(err, "encode reward")
	}
	sigs, err := signAll(inner, keys)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(&RewardRequest{Reward: inner, Sigs: sigs})
}

func signAll(inner []byte, keys []*ecdsa.PrivateKey) ([][]byte, error) {
	hash := SigningHash(inner)
	sigs := make([][]byte, 0, len(keys))
	for _, key := range keys {
		sig, err := cry.Sign(hash, key)
		if err != nil {
			return nil, errors.Wrap(err, "sign")
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}
