package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/platform/app"
	"github.com/SscSPs/posting_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:        config.StoreDriverMemory,
		BaseCurrency:       "ARS",
		ChequeDayCount:     domain.DayCountActual365,
		ChequeInterestBase: domain.DefaultInterestBase,
		ChequeHoldingCode:  "1200",
	}
}

// newTestEnv shares one in-memory ledger across every command run.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	shared, err := app.New(context.Background(), memoryConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(shared.Close)

	return &env{
		loadConfig: func() (*config.Config, error) { return memoryConfig(), nil },
		open: func(context.Context, *config.Config, *slog.Logger) (*app.App, error) {
			return &app.App{Config: shared.Config, Repos: shared.Repos, Services: shared.Services, Events: shared.Events}, nil
		},
		logger: logger,
	}
}

func run(t *testing.T, e *env, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const fxBuyJSON = `{
	"typeCode": "FX_BUY",
	"operationDate": "2024-01-10T00:00:00Z",
	"amount": "100",
	"currencyCode": "USD",
	"exchangeRate": "1000",
	"lines": [
		{"accountCode": "1020", "side": "DEBIT", "amount": "100", "currencyCode": "USD"},
		{"accountCode": "1010", "side": "CREDIT", "amount": "99500", "currencyCode": "ARS"}
	]
}`

func TestSeed_Repeatable(t *testing.T) {
	e := newTestEnv(t)
	out, err := run(t, e, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "accounts")
}

func TestSeed_FromFile(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
currencies: [{code: EUR, symbol: "€", name: Euro, minor_units: 2}]
accounts:
  - {code: "1050", name: Caja EUR, type: ASSET, currency: EUR, flags: {is_cash: true}}
`), 0o600))

	out, err := run(t, e, "", "seed", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 currencies, 1 accounts")

	_, err = run(t, e, "", "seed", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostReverseAndReport(t *testing.T) {
	e := newTestEnv(t)

	out, err := run(t, e, fxBuyJSON, "post", "-", "--user", "1")
	require.NoError(t, err)
	var posted struct {
		OperationID int64  `json:"operationID"`
		FxEntryID   *int64 `json:"fxEntryID"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &posted))
	require.NotNil(t, posted.FxEntryID)

	out, err = run(t, e, "", "balance", "5100", "--as-of", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, `"displayBalance": "500"`)

	out, err = run(t, e, "", "trial-balance", "--as-of", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "balanced: true")
	assert.Contains(t, out, "5100")

	_, err = run(t, e, "", "reverse", "1", "--user", "1")
	require.NoError(t, err)
	_, err = run(t, e, "", "reverse", "1", "--user", "1")
	assert.Error(t, err)

	out, err = run(t, e, "", "trial-balance", "--as-of", "2024-01-10", "--json")
	require.NoError(t, err)
	var tb struct {
		Balanced bool `json:"balanced"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tb))
	assert.True(t, tb.Balanced)
}

func TestPost_RequiresUser(t *testing.T) {
	e := newTestEnv(t)
	_, err := run(t, e, fxBuyJSON, "post", "-")
	assert.ErrorContains(t, err, "user")
}

func TestChequeCommands(t *testing.T) {
	e := newTestEnv(t)

	out, err := run(t, e, "", "cheque", "list")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = run(t, e, "", "cheque", "list", "--status", "bogus")
	assert.Error(t, err)

	_, err = run(t, e, "", "cheque", "transition", "1", "accredited", "--user", "1", "--date", "2024-02-12")
	assert.Error(t, err)

	_, err = run(t, e, "", "cheque", "transition", "1", "accredited", "--user", "1", "--penalty", "abc")
	assert.ErrorContains(t, err, "invalid penalty")
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	e := newTestEnv(t)
	_, err := run(t, e, "", "migrate", "up")
	assert.ErrorContains(t, err, "STORE_DRIVER")

	_, err = run(t, e, "", "migrate", "sideways")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = parseDate("29/02/2024")
	assert.Error(t, err)
}
