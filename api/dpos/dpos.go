// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/api/utils"
	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/solo"
	"github.com/sgnlabs/dpos/thor"
)

type DPoS struct {
	host *solo.Solo
}

func New(host *solo.Solo) *DPoS {
	return &DPoS{host}
}

func parseAddress(r *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func parseID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (d *DPoS) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var out *Candidate
	err = d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		c, err := engine.GetCandidate(addr)
		if err != nil {
			return err
		}
		isValidator, err := engine.IsValidator(addr)
		if err != nil {
			return err
		}
		out = convertCandidate(addr, c, isValidator)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetDelegation(w http.ResponseWriter, req *http.Request) error {
	cand, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	delegator, err := parseAddress(req, "delegator")
	if err != nil {
		return err
	}
	var out *Delegation
	err = d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		del, err := engine.GetDelegation(cand, delegator)
		if err != nil {
			return err
		}
		out = convertDelegation(cand, delegator, del)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetValidators(w http.ResponseWriter, _ *http.Request) error {
	var out []Validator
	err := d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		entries, err := engine.GetValidators()
		if err != nil {
			return err
		}
		out = make([]Validator, 0, len(entries))
		for _, e := range entries {
			out = append(out, Validator{Address: e.Address, StakingPool: amount(e.Pool)})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	out := make(map[string]*math.HexOrDecimal256)
	err := d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		for _, id := range params.IDs() {
			v, err := engine.GetParam(id)
			if err != nil {
				return err
			}
			out[id.String()] = amount(v)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetParamProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var out *ParamProposal
	err = d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		p, err := engine.GetParamProposal(id)
		if err != nil {
			return err
		}
		out = convertParamProposal(id, p)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetSidechainProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var out *SidechainProposal
	err = d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		p, err := engine.GetSidechainProposal(id)
		if err != nil {
			return err
		}
		out = convertSidechainProposal(id, p)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *DPoS) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var out Pools
	err := d.host.View(func(engine *dpos.DPoS, _ uint32) error {
		mining, err := engine.GetMiningPool()
		if err != nil {
			return err
		}
		service, err := engine.GetServicePool()
		if err != nil {
			return err
		}
		total, err := engine.GetTotalValidatorStakingPool()
		if err != nil {
			return err
		}
		quorum, err := engine.GetMinQuorumStakingPool()
		if err != nil {
			return err
		}
		out = Pools{
			MiningPool:           amount(mining),
			ServicePool:          amount(service),
			TotalValidatorStake:  amount(total),
			MinQuorumStakingPool: amount(quorum),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func (d *DPoS) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	out := Status{GenesisID: d.host.Genesis().ID()}
	err := d.host.View(func(engine *dpos.DPoS, block uint32) error {
		var err error
		out.Head = block - 1
		out.BlockNumber = block
		if out.Owner, err = engine.Owner(); err != nil {
			return err
		}
		if out.Paused, err = engine.IsPaused(); err != nil {
			return err
		}
		if out.ValidDPoS, err = engine.IsValidDPoS(block); err != nil {
			return err
		}
		if out.Migrating, err = engine.IsMigrating(block); err != nil {
			return err
		}
		out.ValidatorNum, err = engine.GetValidatorNum()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

// submit runs an engine call carrying an encoded request, as the caller named in the body.
func (d *DPoS) submit(call func(engine *dpos.DPoS, env dpos.Env, data []byte) (*dpos.Receipt, error)) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body CallRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		data, err := hexutil.Decode(body.Data)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "data"))
		}
		var caller thor.Address
		if body.Caller != nil {
			caller = *body.Caller
		}

		var block uint32
		receipt, err := d.host.Execute(caller, func(engine *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
			block = env.BlockNumber
			return call(engine, env, data)
		})
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertReceipt(block, receipt))
	}
}

func (d *DPoS) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/candidates/{address}").
		Methods(http.MethodGet).
		Name("dpos_get_candidate").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetCandidate))
	sub.Path("/candidates/{address}/delegations/{delegator}").
		Methods(http.MethodGet).
		Name("dpos_get_delegation").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDelegation))
	sub.Path("/validators").
		Methods(http.MethodGet).
		Name("dpos_get_validators").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetValidators))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("dpos_get_params").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetParams))
	sub.Path("/proposals/params/{id}").
		Methods(http.MethodGet).
		Name("dpos_get_param_proposal").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetParamProposal))
	sub.Path("/proposals/sidechains/{id}").
		Methods(http.MethodGet).
		Name("dpos_get_sidechain_proposal").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetSidechainProposal))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("dpos_get_pools").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetPools))
	sub.Path("/status").
		Methods(http.MethodGet).
		Name("dpos_get_status").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetStatus))
	sub.Path("/slash").
		Methods(http.MethodPost).
		Name("dpos_slash").
		HandlerFunc(utils.WrapHandlerFunc(d.submit((*dpos.DPoS).Slash)))
	sub.Path("/rewards").
		Methods(http.MethodPost).
		Name("dpos_redeem_reward").
		HandlerFunc(utils.WrapHandlerFunc(d.submit((*dpos.DPoS).RedeemReward)))
}
