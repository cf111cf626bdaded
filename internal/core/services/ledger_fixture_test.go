package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/core/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/platform/config"
	"github.com/SscSPs/posting_engine/internal/platform/seed"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Ids assigned by seeding the default chart into an empty store.
const (
	testUserID     int64 = 1
	testClientID   int64 = 1
	testSupplierID int64 = 2
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.EventType)
	}
	return out
}

type ledgerFixture struct {
	store  *memory.Store
	svc    *portssvc.ServiceContainer
	events *recordingPublisher
}

func testConfig() *config.Config {
	return &config.Config{
		BaseCurrency:       "ARS",
		ChequeDayCount:     domain.DayCountActual365,
		ChequeInterestBase: domain.DefaultInterestBase,
		ChequeHoldingCode:  "1200",
	}
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	f, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.Apply(context.Background(), store, f)
	require.NoError(t, err)

	events := &recordingPublisher{}
	return &ledgerFixture{
		store:  store,
		svc:    services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(store), events),
		events: events,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func debit(code, amount, currency string) dto.OperationLineRequest {
	return dto.OperationLineRequest{AccountCode: code, Side: domain.Debit, Amount: dec(amount), CurrencyCode: currency}
}

func credit(code, amount, currency string) dto.OperationLineRequest {
	return dto.OperationLineRequest{AccountCode: code, Side: domain.Credit, Amount: dec(amount), CurrencyCode: currency}
}

// adjustment builds a single-currency ADJUSTMENT dated 2024-01-10.
func adjustment(currency, amount string, lines ...dto.OperationLineRequest) dto.PostOperationRequest {
	return dto.PostOperationRequest{
		TypeCode:      domain.OpAdjustment,
		OperationDate: date(2024, time.January, 10),
		Amount:        dec(amount),
		CurrencyCode:  currency,
		UserID:        testUserID,
		Lines:         lines,
	}
}

// fxBuy builds the FX_BUY of 100 USD at the given rate against creditARS pesos.
func fxBuy(rate, creditARS string) dto.PostOperationRequest {
	return dto.PostOperationRequest{
		TypeCode:      domain.OpFxBuy,
		OperationDate: date(2024, time.January, 10),
		Amount:        dec("100"),
		CurrencyCode:  "USD",
		ExchangeRate:  decPtr(rate),
		UserID:        testUserID,
		Lines: []dto.OperationLineRequest{
			debit("1020", "100", "USD"),
			credit("1010", creditARS, "ARS"),
		},
	}
}
