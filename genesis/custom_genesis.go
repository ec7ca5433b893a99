// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name       string       `json:"name" yaml:"name"`
	Engine     thor.Address `json:"engine" yaml:"engine"`
	Token      thor.Address `json:"token" yaml:"token"`
	Owner      thor.Address `json:"owner" yaml:"owner"`
	Companion  thor.Address `json:"companion" yaml:"companion"`
	Params     Params       `json:"params" yaml:"params"`
	Accounts   []Account    `json:"accounts" yaml:"accounts"`
	Validators []Validator  `json:"validators" yaml:"validators"`
}

// Account is the token allocation made at genesis.
type Account struct {
	Address thor.Address     `json:"address" yaml:"address"`
	Balance *HexOrDecimal256 `json:"balance" yaml:"balance"`
}

// Validator is bonded at genesis with a freshly minted self stake.
type Validator struct {
	Address        thor.Address     `json:"address" yaml:"address"`
	SelfStake      *HexOrDecimal256 `json:"selfStake" yaml:"selfStake"`
	MinSelfStake   *HexOrDecimal256 `json:"minSelfStake" yaml:"minSelfStake"`
	CommissionRate uint64           `json:"commissionRate" yaml:"commissionRate"`
}

// Params means the construction params of the engine.
type Params struct {
	ProposalDeposit     *HexOrDecimal256 `json:"proposalDeposit" yaml:"proposalDeposit"`
	GovernVoteTimeout   uint64           `json:"governVoteTimeout" yaml:"governVoteTimeout"`
	SlashTimeout        uint64           `json:"slashTimeout" yaml:"slashTimeout"`
	MinValidatorNum     uint64           `json:"minValidatorNum" yaml:"minValidatorNum"`
	MaxValidatorNum     uint64           `json:"maxValidatorNum" yaml:"maxValidatorNum"`
	MinStakingPool      *HexOrDecimal256 `json:"minStakingPool" yaml:"minStakingPool"`
	AdvanceNoticePeriod uint64           `json:"advanceNoticePeriod" yaml:"advanceNoticePeriod"`
	DposGoLiveBlock     uint64           `json:"dposGoLiveBlock" yaml:"dposGoLiveBlock"`
}

// Load reads a custom genesis file. Files ending in .json are decoded as JSON, anything else as YAML.
func Load(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &gen)
	} else {
		err = yaml.Unmarshal(data, &gen)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Engine.IsZero() || gen.Token.IsZero() {
		return nil, errors.New("engine and token addresses must be set")
	}
	if gen.Engine == gen.Token {
		return nil, errors.New("engine and token must not share an account")
	}
	if gen.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}
	if gen.Params.ProposalDeposit == nil || gen.Params.MinStakingPool == nil {
		return nil, errors.New("proposalDeposit and minStakingPool must be set")
	}

	builder := new(Builder).
		Engine(gen.Engine, gen.Token).
		Config(&dpos.Config{
			Owner:               gen.Owner,
			Companion:           gen.Companion,
			ProposalDeposit:     gen.Params.ProposalDeposit.Int(),
			GovernVoteTimeout:   gen.Params.GovernVoteTimeout,
			SlashTimeout:        gen.Params.SlashTimeout,
			MinValidatorNum:     gen.Params.MinValidatorNum,
			MaxValidatorNum:     gen.Params.MaxValidatorNum,
			MinStakingPool:      gen.Params.MinStakingPool.Int(),
			AdvanceNoticePeriod: gen.Params.AdvanceNoticePeriod,
			DposGoLiveBlock:     gen.Params.DposGoLiveBlock,
		})

	for _, a := range gen.Accounts {
		if a.Balance == nil || a.Balance.Int().Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		builder.Alloc(a.Address, a.Balance.Int())
	}
	for _, v := range gen.Validators {
		if v.SelfStake == nil || v.MinSelfStake == nil {
			return nil, fmt.Errorf("%s: selfStake and minSelfStake must be set", v.Address)
		}
		builder.Validator(v)
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return newGenesis(name, builder)
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Int returns a copy of the value.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface, used for YAML scalars.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
