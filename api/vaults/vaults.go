// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/host"
	"github.com/vechain/stakevault/program"
	"github.com/vechain/stakevault/transfer"
	"github.com/vechain/stakevault/vault/faults"
)

const defaultEventsLimit = 100

type Vaults struct {
	program *program.Program
	host    *host.Host
}

func New(p *program.Program, h *host.Host) *Vaults {
	return &Vaults{
		p,
		h,
	}
}

// convertError maps instruction failures to http errors.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, host.ErrVaultNotFound), faults.Is(err, faults.NotFound):
		return utils.NotFound(err)
	case errors.Is(err, transfer.ErrUnauthorized), faults.Is(err, faults.Unauthorized):
		return utils.Forbidden(err)
	case faults.IsFault(err),
		errors.Is(err, transfer.ErrInsufficientFunds),
		errors.Is(err, transfer.ErrBalanceOverflow),
		errors.Is(err, host.ErrVaultExists):
		return utils.BadRequest(err)
	}
	return err
}

func parseVaultID(req *http.Request) (acct.Address, error) {
	id, err := acct.ParseAddress(mux.Vars(req)["id"])
	if err != nil {
		return acct.Address{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (v *Vaults) handleGetVaults(w http.ResponseWriter, req *http.Request) error {
	ids, err := v.host.Vaults()
	if err != nil {
		return err
	}
	out := make([]*Vault, 0, len(ids))
	for _, id := range ids {
		vlt, err := v.program.Vault(id)
		if err != nil {
			return err
		}
		out = append(out, convertVault(id, vlt, false))
	}
	return utils.WriteJSON(w, out)
}

func (v *Vaults) handleGetVault(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	vlt, err := v.program.Vault(id)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertVault(id, vlt, true))
}

func (v *Vaults) handleGetParticipant(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	addr, err := acct.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	vlt, err := v.program.Vault(id)
	if err != nil {
		return convertError(err)
	}
	p, ok := vlt.Participant(addr)
	if !ok {
		return utils.NotFound(errors.New("participant not found"))
	}
	pending, err := vlt.PendingReward(v.host.Clock().Now(), addr)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &PendingParticipant{
		Participant: convertParticipant(p),
		Pending:     math.HexOrDecimal64(pending),
	})
}

func (v *Vaults) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	query := req.URL.Query()
	offset, err := utils.StringToUint64(query.Get("offset"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	limit, err := utils.StringToUint64(query.Get("limit"), defaultEventsLimit)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > defaultEventsLimit {
		return utils.BadRequest(errors.Errorf("limit exceeds %d", defaultEventsLimit))
	}
	events, err := v.program.Events(id, offset, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*eventdb.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (v *Vaults) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body CreateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := v.program.Initialize(req.Context(), body.Signer, body.Mint, uint64(body.DailyPayout))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &CreateResponse{ID: id})
}

func (v *Vaults) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	var body UpdateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.program.Update(req.Context(), id, body.Signer, body.Authority, body.Mint, uint64(body.DailyPayout)); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{})
}

// handleAmount serves the instructions taking a signer and an amount.
func (v *Vaults) handleAmount(op func(ctx context.Context, id, signer acct.Address, amount uint64) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		id, err := parseVaultID(req)
		if err != nil {
			return err
		}
		var body AmountRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := op(req.Context(), id, body.Signer, uint64(body.Amount)); err != nil {
			return convertError(err)
		}
		return utils.WriteJSON(w, utils.M{})
	}
}

func (v *Vaults) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	res, err := v.program.Unstake(req.Context(), id, body.Signer, uint64(body.Amount))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &UnstakeResponse{
		Removed:   res.Removed,
		Forfeited: math.HexOrDecimal64(res.Forfeited),
	})
}

func (v *Vaults) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	var body SignerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := v.program.Claim(req.Context(), id, body.Signer)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &ClaimResponse{Amount: math.HexOrDecimal64(amount)})
}

func (v *Vaults) handleClose(w http.ResponseWriter, req *http.Request) error {
	id, err := parseVaultID(req)
	if err != nil {
		return err
	}
	var body SignerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := v.program.Close(req.Context(), id, body.Signer); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{})
}

func (v *Vaults) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vaults").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVaults))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /vaults").
		HandlerFunc(utils.WrapHandlerFunc(v.handleCreate))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /vaults/{id}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVault))
	sub.Path("/{id}/participants/{address}").
		Methods(http.MethodGet).
		Name("GET /vaults/{id}/participants/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetParticipant))
	sub.Path("/{id}/events").
		Methods(http.MethodGet).
		Name("GET /vaults/{id}/events").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetEvents))
	sub.Path("/{id}/update").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/update").
		HandlerFunc(utils.WrapHandlerFunc(v.handleUpdate))
	sub.Path("/{id}/fund").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/fund").
		HandlerFunc(utils.WrapHandlerFunc(v.handleAmount(v.program.Fund)))
	sub.Path("/{id}/withdraw").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(v.handleAmount(v.program.Withdraw)))
	sub.Path("/{id}/stake").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/stake").
		HandlerFunc(utils.WrapHandlerFunc(v.handleAmount(v.program.Stake)))
	sub.Path("/{id}/unstake").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(v.handleUnstake))
	sub.Path("/{id}/claim").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/claim").
		HandlerFunc(utils.WrapHandlerFunc(v.handleClaim))
	sub.Path("/{id}/close").
		Methods(http.MethodPost).
		Name("POST /vaults/{id}/close").
		HandlerFunc(utils.WrapHandlerFunc(v.handleClose))
}
