package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/internal/asset"
	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

var (
	owner = ethcommon.HexToAddress("0x1210000000000000000000000000000000000000")
	alice = ethcommon.HexToAddress("0x1220000000000000000000000000000000000000")
	bob   = ethcommon.HexToAddress("0x1230000000000000000000000000000000000000")
)

func mockServer(t *testing.T) (*Server, *mux.Router) {
	t.Helper()

	rep := repo.MockRepo(t)
	rep.GenesisConfig.Owner = owner.String()
	rep.GenesisConfig.Asset.InitialSupply = "500"
	rep.GenesisConfig.Asset.MaxTransactionAmount = "100"
	rep.GenesisConfig.Asset.MaxWalletBalance = "800"

	manager := asset.New(asset.Config{StateLedger: ledger.New(kv.NewMemory())})
	require.Nil(t, manager.GenesisInit(rep.GenesisConfig))

	s := New(rep, manager)
	router := mux.NewRouter()
	s.registerRoutes(router)
	return s, router
}

func doRequest(t *testing.T, router *mux.Router, method, target string, caller *ethcommon.Address, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.Nil(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if caller != nil {
		req.Header.Set(callerHeader, caller.String())
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAssetQueries(t *testing.T) {
	_, router := mockServer(t)

	t.Run("asset info", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/asset", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		info := decodeResponse[assetInfoResponse](t, rec)
		require.Equal(t, repo.DefaultAssetName, info.Name)
		require.Equal(t, repo.DefaultAssetSymbol, info.Symbol)
		require.Equal(t, owner.String(), info.Owner)
		require.False(t, info.Paused)
	})

	t.Run("supply and limits", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/asset/supply", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "500", decodeResponse[amountResponse](t, rec).Amount)

		rec = doRequest(t, router, http.MethodGet, "/v1/asset/limits", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		limits := decodeResponse[limitsResponse](t, rec)
		require.Equal(t, "100", limits.MaxTransactionAmount)
		require.Equal(t, "800", limits.MaxWalletBalance)
	})

	t.Run("balance", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/accounts/"+owner.String()+"/balance", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "500", decodeResponse[amountResponse](t, rec).Amount)
	})

	t.Run("bad address rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/v1/accounts/zzz/balance", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransferEndpoint(t *testing.T) {
	_, router := mockServer(t)

	t.Run("transfer success", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/transfer", &owner,
			&transferRequest{To: alice.String(), Amount: "60"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/v1/accounts/"+alice.String()+"/balance", nil, nil)
		require.Equal(t, "60", decodeResponse[amountResponse](t, rec).Amount)
	})

	t.Run("missing caller header", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/transfer", nil,
			&transferRequest{To: alice.String(), Amount: "10"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cap violation maps to 422", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/transfer", &owner,
			&transferRequest{To: alice.String(), Amount: "150"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/transfer", bytes.NewBufferString("{"))
		req.Header.Set(callerHeader, owner.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAllowanceFlow(t *testing.T) {
	_, router := mockServer(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/approve", &owner,
		&approveRequest{Spender: alice.String(), Amount: "80"})
	require.Equal(t, http.StatusOK, rec.Code)

	target := fmt.Sprintf("/v1/accounts/%s/allowance?spender=%s", owner, alice)
	rec = doRequest(t, router, http.MethodGet, target, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "80", decodeResponse[amountResponse](t, rec).Amount)

	rec = doRequest(t, router, http.MethodPost, "/v1/transfer-from", &alice,
		&transferRequest{From: owner.String(), To: bob.String(), Amount: "50"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, target, nil, nil)
	require.Equal(t, "30", decodeResponse[amountResponse](t, rec).Amount)
}

func TestAdminEndpoints(t *testing.T) {
	_, router := mockServer(t)

	t.Run("non-owner forbidden", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/pause", &alice, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("blacklist lifecycle", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/blacklist", &owner,
			&accountRequest{Account: alice.String()})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/v1/accounts/"+alice.String()+"/status", nil, nil)
		require.True(t, decodeResponse[accountStatusResponse](t, rec).Blacklisted)

		// duplicate blacklist maps to 409
		rec = doRequest(t, router, http.MethodPost, "/v1/admin/blacklist", &owner,
			&accountRequest{Account: alice.String()})
		require.Equal(t, http.StatusConflict, rec.Code)

		rec = doRequest(t, router, http.MethodPost, "/v1/admin/unblacklist", &owner,
			&accountRequest{Account: alice.String()})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("pause blocks transfers", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/pause", &owner, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPost, "/v1/transfer", &owner,
			&transferRequest{To: alice.String(), Amount: "10"})
		require.Equal(t, http.StatusConflict, rec.Code)

		rec = doRequest(t, router, http.MethodPost, "/v1/admin/unpause", &owner, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("limits update", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/limits/max-transaction", &owner,
			&amountRequest{Amount: "200"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/v1/asset/limits", nil, nil)
		require.Equal(t, "200", decodeResponse[limitsResponse](t, rec).MaxTransactionAmount)
	})

	t.Run("unknown recovery symbol maps to 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/recover", &owner,
			&recoverRequest{Symbol: "QUX", Amount: "10"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("description update", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/description", &owner,
			&descriptionRequest{Description: "managed asset"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/v1/asset", nil, nil)
		require.Equal(t, "managed asset", decodeResponse[assetInfoResponse](t, rec).Description)
	})
}

func TestServerLifecycle(t *testing.T) {
	s, _ := mockServer(t)
	s.rep.Config.Port.API = 18881

	require.Nil(t, s.Start())
	defer func() {
		require.Nil(t, s.Stop())
	}()

	resp, err := http.Get("http://127.0.0.1:18881/v1/asset/supply")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
