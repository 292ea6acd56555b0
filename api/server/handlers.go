package server

import (
	"encoding/json"
	"math/big"
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/internal/asset"
	"github.com/onyxmesh/onyx-ledger/internal/ledger"
)

const callerHeader = "X-Onyx-Caller"

var (
	errMissingCaller  = errors.New("missing or invalid " + callerHeader + " header")
	errInvalidAddress = errors.New("invalid address")
	errInvalidAmount  = errors.New("amount must be a decimal integer string")
	errMalformedBody  = errors.New("malformed request body")
)

type assetInfoResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Paused      bool   `json:"paused"`
}

type amountResponse struct {
	Amount string `json:"amount"`
}

type limitsResponse struct {
	MaxTransactionAmount string `json:"max_transaction_amount"`
	MaxWalletBalance     string `json:"max_wallet_balance"`
}

type accountStatusResponse struct {
	Blacklisted bool `json:"blacklisted"`
	Minter      bool `json:"minter"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type approveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type accountRequest struct {
	Account string `json:"account"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type recoverRequest struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleAssetInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &assetInfoResponse{
		Name:        s.manager.Name(),
		Symbol:      s.manager.Symbol(),
		Decimals:    s.manager.Decimals(),
		Description: s.manager.Description(),
		Owner:       s.manager.Owner().String(),
		Paused:      s.manager.IsPaused(),
	})
}

func (s *Server) handleTotalSupply(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &amountResponse{Amount: s.manager.TotalSupply().String()})
}

func (s *Server) handleLimits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &limitsResponse{
		MaxTransactionAmount: s.manager.MaxTransactionAmount().String(),
		MaxWalletBalance:     s.manager.MaxWalletBalance().String(),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r, "address")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &amountResponse{Amount: s.manager.BalanceOf(addr).String()})
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, err := pathAddress(r, "address")
	if err != nil {
		s.writeError(w, err)
		return
	}
	spenderRaw := r.URL.Query().Get("spender")
	if !ethcommon.IsHexAddress(spenderRaw) {
		s.writeError(w, errors.Wrap(errInvalidAddress, "spender"))
		return
	}
	spender := ethcommon.HexToAddress(spenderRaw)
	writeJSON(w, http.StatusOK, &amountResponse{Amount: s.manager.Allowance(owner, spender).String()})
}

func (s *Server) handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r, "address")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &accountStatusResponse{
		Blacklisted: s.manager.IsBlacklisted(addr),
		Minter:      s.manager.IsMinter(addr),
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	to, amount, err := parseAddressAmount(req.To, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.Transfer(caller, to, amount))
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !ethcommon.IsHexAddress(req.From) {
		s.writeError(w, errors.Wrap(errInvalidAddress, "from"))
		return
	}
	to, amount, err := parseAddressAmount(req.To, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.TransferFrom(caller, ethcommon.HexToAddress(req.From), to, amount))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req approveRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	spender, amount, err := parseAddressAmount(req.Spender, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.Approve(caller, spender, amount))
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	to, amount, err := parseAddressAmount(req.To, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.Mint(caller, to, amount))
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		s.writeError(w, errInvalidAmount)
		return
	}
	s.finish(w, s.manager.Burn(caller, amount))
}

func (s *Server) handleBurnFrom(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	from, amount, err := parseAddressAmount(req.From, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.BurnFrom(caller, from, amount))
}

func (s *Server) handleBlacklist(w http.ResponseWriter, r *http.Request) {
	s.adminAccountOp(w, r, s.manager.Blacklist)
}

func (s *Server) handleUnBlacklist(w http.ResponseWriter, r *http.Request) {
	s.adminAccountOp(w, r, s.manager.UnBlacklist)
}

func (s *Server) handleAddMinter(w http.ResponseWriter, r *http.Request) {
	s.adminAccountOp(w, r, s.manager.AddMinter)
}

func (s *Server) handleRemoveMinter(w http.ResponseWriter, r *http.Request) {
	s.adminAccountOp(w, r, s.manager.RemoveMinter)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	s.adminAccountOp(w, r, s.manager.TransferOwnership)
}

func (s *Server) adminAccountOp(w http.ResponseWriter, r *http.Request, op func(caller, account ethcommon.Address) error) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !ethcommon.IsHexAddress(req.Account) {
		s.writeError(w, errors.Wrap(errInvalidAddress, "account"))
		return
	}
	s.finish(w, op(caller, ethcommon.HexToAddress(req.Account)))
}

func (s *Server) handleSetMaxTransaction(w http.ResponseWriter, r *http.Request) {
	s.adminAmountOp(w, r, s.manager.SetMaxTransactionAmount)
}

func (s *Server) handleSetMaxWallet(w http.ResponseWriter, r *http.Request) {
	s.adminAmountOp(w, r, s.manager.SetMaxWalletBalance)
}

func (s *Server) adminAmountOp(w http.ResponseWriter, r *http.Request, op func(caller ethcommon.Address, v *big.Int) error) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		s.writeError(w, errInvalidAmount)
		return
	}
	s.finish(w, op(caller, amount))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.Pause(caller))
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.Unpause(caller))
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req recoverRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		s.writeError(w, errInvalidAmount)
		return
	}
	s.finish(w, s.manager.RecoverForeignAsset(caller, req.Symbol, amount))
}

func (s *Server) handleWithdrawNative(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.WithdrawNativeCurrency(caller))
}

func (s *Server) handleUpdateDescription(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAddress(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req descriptionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.finish(w, s.manager.UpdateDescription(caller, req.Description))
}

func (s *Server) finish(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}
	writeJSON(w, status, &errorResponse{Error: err.Error()})
}

// statusFor maps the manager's sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingCaller),
		errors.Is(err, errInvalidAddress),
		errors.Is(err, errInvalidAmount),
		errors.Is(err, errMalformedBody),
		errors.Is(err, asset.ErrInvalidAmount),
		errors.Is(err, asset.ErrEmptyDescription),
		errors.Is(err, ledger.ErrZeroAddress):
		return http.StatusBadRequest
	case errors.Is(err, asset.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, asset.ErrUnknownForeignAsset):
		return http.StatusNotFound
	case errors.Is(err, asset.ErrSystemPaused),
		errors.Is(err, asset.ErrInvalidState),
		errors.Is(err, asset.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, asset.ErrBlacklisted),
		errors.Is(err, asset.ErrExceedsTransactionLimit),
		errors.Is(err, asset.ErrExceedsWalletLimit),
		errors.Is(err, asset.ErrInsufficientAllowance),
		errors.Is(err, asset.ErrSelfRecovery),
		errors.Is(err, asset.ErrInsufficientExternalBalance),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func callerAddress(r *http.Request) (ethcommon.Address, error) {
	raw := r.Header.Get(callerHeader)
	if !ethcommon.IsHexAddress(raw) {
		return ethcommon.Address{}, errMissingCaller
	}
	return ethcommon.HexToAddress(raw), nil
}

func pathAddress(r *http.Request, name string) (ethcommon.Address, error) {
	raw := mux.Vars(r)[name]
	if !ethcommon.IsHexAddress(raw) {
		return ethcommon.Address{}, errors.Wrap(errInvalidAddress, name)
	}
	return ethcommon.HexToAddress(raw), nil
}

func parseAddressAmount(addrRaw, amountRaw string) (ethcommon.Address, *big.Int, error) {
	if !ethcommon.IsHexAddress(addrRaw) {
		return ethcommon.Address{}, nil, errInvalidAddress
	}
	amount, ok := new(big.Int).SetString(amountRaw, 10)
	if !ok {
		return ethcommon.Address{}, nil, errInvalidAmount
	}
	return ethcommon.HexToAddress(addrRaw), amount, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errMalformedBody, err.Error())
	}
	return nil
}
