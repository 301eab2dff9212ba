// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/host"
	"github.com/vechain/stakevault/transfer"
)

type Accounts struct {
	host   *host.Host
	faucet bool
}

func New(h *host.Host, faucet bool) *Accounts {
	return &Accounts{
		h,
		faucet,
	}
}

func parseAddresses(req *http.Request) (owner, mint acct.Address, err error) {
	owner, err = acct.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return owner, mint, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	if m, ok := mux.Vars(req)["mint"]; ok {
		if mint, err = acct.ParseAddress(m); err != nil {
			return owner, mint, utils.BadRequest(errors.WithMessage(err, "mint"))
		}
	}
	return owner, mint, nil
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	owner, mint, err := parseAddresses(req)
	if err != nil {
		return err
	}
	bal, err := a.host.Balance(mint, owner)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{
		Owner:   owner,
		Mint:    mint,
		Balance: math.HexOrDecimal64(bal),
	})
}

func (a *Accounts) handleMint(w http.ResponseWriter, req *http.Request) error {
	if !a.faucet {
		return utils.Forbidden(errors.New("faucet disabled"))
	}
	owner, _, err := parseAddresses(req)
	if err != nil {
		return err
	}
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == 0 {
		return utils.BadRequest(errors.New("amount: must be positive"))
	}
	if err := a.host.Mint(body.Mint, owner, uint64(body.Amount)); err != nil {
		if errors.Is(err, transfer.ErrBalanceOverflow) {
			return utils.BadRequest(err)
		}
		return err
	}
	bal, err := a.host.Balance(body.Mint, owner)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{
		Owner:   owner,
		Mint:    body.Mint,
		Balance: math.HexOrDecimal64(bal),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/balances/{mint}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/balances/{mint}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{address}/mint").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/mint").
		HandlerFunc(utils.WrapHandlerFunc(a.handleMint))
}
