package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/evraktakip/evraktakip/internal/adapter/http"
	"github.com/evraktakip/evraktakip/internal/adapter/http/handler"
	"github.com/evraktakip/evraktakip/internal/adapter/rates"
	"github.com/evraktakip/evraktakip/internal/adapter/repository/postgres"
	redisrepo "github.com/evraktakip/evraktakip/internal/adapter/repository/redis"
	"github.com/evraktakip/evraktakip/internal/adapter/spreadsheet"
	"github.com/evraktakip/evraktakip/internal/usecase"
	"github.com/evraktakip/evraktakip/tests/testutil"
)

// newTestServer wires the full HTTP stack against the test database and an
// in-process redis. Notifications and metrics stay off.
func newTestServer(t *testing.T, db *testutil.TestDB) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := db.Pool
	docRepo := postgres.NewDocumentRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	bankRepo := postgres.NewBankRepository(pool)
	userDirectory := postgres.NewUserDirectory(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	rateStore := redisrepo.NewRateStore(redisClient, time.Hour)
	rateService := rates.NewService("http://127.0.0.1:1/latest/TRY", time.Second, rateStore)

	documentUC := usecase.NewDocumentUseCase(
		docRepo, historyRepo, customerRepo, userDirectory,
		nil, idGen, zerolog.Nop(), nil,
	)
	loanUC := usecase.NewLoanUseCase(
		txManager, loanRepo, installmentRepo, idGen, usecase.SystemClock{}, nil,
	).WithRetrier(postgres.NewRetrier())
	importUC := usecase.NewImportUseCase(
		spreadsheet.NewExcelReader(), docRepo, historyRepo, customerRepo, idGen, nil,
	)
	customerUC := usecase.NewCustomerUseCase(customerRepo, idGen)
	bankUC := usecase.NewBankUseCase(bankRepo, idGen)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		DocumentHandler: handler.NewDocumentHandler(documentUC, spreadsheet.WriteDocuments),
		ImportHandler:   handler.NewImportHandler(importUC, 1<<20),
		LoanHandler:     handler.NewLoanHandler(loanUC),
		CustomerHandler: handler.NewCustomerHandler(customerUC, bankUC),
		RatesHandler:    handler.NewRatesHandler(rateService),
		HealthHandler:   handler.NewHealthHandler(pool, redisClient),
		Logger:          zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON performs one request with a JSON body and decodes the JSON response
// into out when it is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "user-1")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp.StatusCode
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
