// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token ledger stakes are denominated in.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var (
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("allowances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
)

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

// Token is the ledger of token balances and allowances.
type Token struct {
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
	totalSupply *solidity.Uint256
}

func New(sctx *solidity.Context) *Token {
	return &Token{
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotAllowances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// Mint credits amount to addr and grows the supply. Used for genesis allocations.
func (t *Token) Mint(to thor.Address, amount *big.Int) error {
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return t.totalSupply.Add(amount)
}

// Transfer moves amount from one account to another.
// It returns false, leaving balances untouched, if the sender cannot afford it.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	ok, err := t.subBalance(from, amount)
	if err != nil || !ok {
		return false, err
	}
	if err := t.addBalance(to, amount); err != nil {
		return false, err
	}
	return true, nil
}

// TransferFrom moves amount out of from's account on behalf of spender, consuming allowance.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) (bool, error) {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := t.Transfer(from, to, amount)
	if err != nil || !ok {
		return false, err
	}
	if err := t.allowances.Set(allowanceKey(from, spender), allowance.Sub(allowance, amount)); err != nil {
		return false, errors.Wrap(err, "failed to set allowance")
	}
	return true, nil
}

// Approve sets the amount spender may move out of owner's account.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative allowance")
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

// Allowance returns the remaining amount spender may move out of owner's account.
func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	v, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return v, nil
}

func (t *Token) addBalance(addr thor.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.balances.Set(addr, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func (t *Token) subBalance(addr thor.Address, amount *big.Int) (bool, error) {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	if amount.Sign() == 0 {
		return true, nil
	}
	if err := t.balances.Set(addr, bal.Sub(bal, amount)); err != nil {
		return false, errors.Wrap(err, "failed to set balance")
	}
	return true, nil
}
