package atm_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpointd/atm-session-go/atm"
	"github.com/cashpointd/atm-session-go/bank"
	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/session"
	"github.com/cashpointd/atm-session-go/teller"
	"github.com/cashpointd/atm-session-go/testutil"
)

func Test_New_RejectsNilMachine(t *testing.T) {
	// act
	_, err := atm.New(nil)

	// assert
	assert.ErrorIs(t, err, atm.ErrNilMachine)
}

func Test_ATM_ForwardsActionsToTheMachine(t *testing.T) {
	// arrange
	ctx := context.Background()
	facade, _ := newTestATM(t)

	// act - a full visit through the facade
	require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))
	require.NoError(t, facade.EnterPIN(ctx, testutil.FixturePIN))
	require.NoError(t, facade.SelectAccount(ctx, 0))
	require.NoError(t, facade.SelectDeposit(ctx))
	require.NoError(t, facade.PutInCash(ctx, 100))
	require.NoError(t, facade.Exit(ctx))
	require.NoError(t, facade.TakeOutCard(ctx))

	// assert
	assert.Equal(t, core.StateIdle, facade.CurrentState())
}

func Test_ATM_PassesMachineErrorsThroughUnchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	facade, _ := newTestATM(t)

	// act - EnterPIN is not permitted in Idle
	err := facade.EnterPIN(ctx, testutil.FixturePIN)

	// assert
	assert.ErrorIs(t, err, core.ErrActionNotPermitted)
}

func Test_ATM_LogsCompletedActionsAtDebugLevel(t *testing.T) {
	// arrange
	ctx := context.Background()
	logSpy := testutil.NewLogHandlerSpy(false)
	facade, _ := newTestATM(t, atm.WithLogger(slog.New(logSpy)))

	// act
	require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))

	// assert
	assert.Equal(t, 1, logSpy.RecordCount())
	assert.True(t, logSpy.HasMessage("customer action completed"))
}

func Test_ATM_LogsRejectedActionsAtDebugLevel(t *testing.T) {
	// arrange
	ctx := context.Background()
	logSpy := testutil.NewLogHandlerSpy(false)
	facade, _ := newTestATM(t, atm.WithLogger(slog.New(logSpy)))

	// act - not permitted in Idle, a retryable rejection
	_ = facade.EnterPIN(ctx, testutil.FixturePIN)

	// assert
	assert.True(t, logSpy.HasMessage("customer action rejected"))
	assert.False(t, logSpy.HasMessage("customer action ended the session"))
}

func Test_ATM_LogsFatalActionsAtInfoLevel(t *testing.T) {
	// arrange
	ctx := context.Background()
	logSpy := testutil.NewLogHandlerSpy(false)
	facade, _ := newTestATM(t, atm.WithLogger(slog.New(logSpy)))
	require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))

	// act - a declined PIN ends the session
	_ = facade.EnterPIN(ctx, "0000")

	// assert
	assert.True(t, logSpy.HasMessage("customer action ended the session"))
}

func Test_ATM_RecordsMetricsPerActionWithOutcomeLabel(t *testing.T) {
	// arrange
	ctx := context.Background()
	metricsSpy := testutil.NewMetricsCollectorSpy()
	facade, _ := newTestATM(t, atm.WithMetricsCollector(metricsSpy))

	// act
	require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))

	// assert
	assert.Equal(t, 1, metricsSpy.CounterCount("atm_action_total"))
	assert.Equal(t, 1, metricsSpy.DurationCount("atm_action_duration"))

	labels := metricsSpy.LastLabels()
	assert.Equal(t, "InsertCard", labels["action"])
	assert.Equal(t, "success", labels["outcome"])
}

func Test_ATM_LabelsRetryableAndFatalOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("retryable action", func(t *testing.T) {
		metricsSpy := testutil.NewMetricsCollectorSpy()
		facade, _ := newTestATM(t, atm.WithMetricsCollector(metricsSpy))

		_ = facade.EnterPIN(ctx, testutil.FixturePIN)

		assert.Equal(t, "retryable", metricsSpy.LastLabels()["outcome"])
	})

	t.Run("fatal action", func(t *testing.T) {
		metricsSpy := testutil.NewMetricsCollectorSpy()
		facade, _ := newTestATM(t, atm.WithMetricsCollector(metricsSpy))
		require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))

		_ = facade.EnterPIN(ctx, "0000")

		assert.Equal(t, "fatal", metricsSpy.LastLabels()["outcome"])
	})
}

func Test_ATM_ExposesTheMachineAccessors(t *testing.T) {
	// arrange
	ctx := context.Background()
	facade, _ := newTestATM(t)

	var visited []core.State
	facade.RegisterOnLoad(func(state core.State) {
		visited = append(visited, state)
	})

	// act
	require.NoError(t, facade.InsertCard(ctx, testutil.FixtureCard()))
	require.NoError(t, facade.EnterPIN(ctx, testutil.FixturePIN))
	require.NoError(t, facade.SelectAccount(ctx, 0))
	require.NoError(t, facade.SelectBalance(ctx))

	// assert
	card, hasCard := facade.InsertedCard()
	require.True(t, hasCard)
	assert.Equal(t, testutil.FixtureCardNumber, card.Number)

	holder, hasHolder := facade.CardHolder()
	require.True(t, hasHolder)
	assert.Equal(t, testutil.FixtureHolderName, holder.Name)

	account, hasAccount := facade.SelectedAccount()
	require.True(t, hasAccount)
	assert.Equal(t, int64(2000), account.Balance)

	assert.Equal(t, int64(2000), facade.DisplayedBalance())
	assert.Equal(t, []core.State{
		core.StateReady,
		core.StateAuthorized,
		core.StateAccountSelected,
		core.StateDisplayingBalance,
	}, visited)
}

// newTestATM wires the facade around a machine with the fixture card holding
// one checking account with a balance of 2000.
func newTestATM(t *testing.T, options ...atm.Option) (*atm.ATM, *core.CashBox) {
	t.Helper()

	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(testutil.FixtureCardNumber, testutil.FixturePIN,
		testutil.FixtureCheckingAccount(2000),
	)

	box := core.BuildCashBox(10_000, 100_000)

	machine, err := session.NewMachine(&box, authority, teller.NewExecutor())
	require.NoError(t, err)

	facade, err := atm.New(machine, options...)
	require.NoError(t, err)

	return facade, &box
}
