// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/api/utils"
	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/solo"
	"github.com/sgnlabs/dpos/thor"
)

// Account is the token position of an address. Allowance is what the engine may pull from it.
type Account struct {
	Balance   *math.HexOrDecimal256 `json:"balance"`
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type Tokens struct {
	host *solo.Solo
}

func New(host *solo.Solo) *Tokens {
	return &Tokens{host}
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var balance, allowance *big.Int
	err = t.host.View(func(engine *dpos.DPoS, _ uint32) error {
		var err error
		if balance, err = engine.Token().BalanceOf(addr); err != nil {
			return err
		}
		allowance, err = engine.Token().Allowance(addr, engine.Address())
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:   (*math.HexOrDecimal256)(balance),
		Allowance: (*math.HexOrDecimal256)(allowance),
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_account").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
}
