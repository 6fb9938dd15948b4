// Command atmdemo wires up a complete cash machine with the in-memory bank
// authority and journal, then runs one scripted customer session: insert card,
// enter PIN, pick an account, deposit, withdraw, check the balance, leave.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cashpointd/atm-session-go/atm"
	"github.com/cashpointd/atm-session-go/bank"
	"github.com/cashpointd/atm-session-go/config"
	"github.com/cashpointd/atm-session-go/core"
	"github.com/cashpointd/atm-session-go/journal"
	"github.com/cashpointd/atm-session-go/session"
	"github.com/cashpointd/atm-session-go/teller"
)

const (
	demoCardNumber = "4556-7375-8689-9855"
	demoPIN        = "2468"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo failed:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	authority := bank.NewMemoryAuthority()
	authority.RegisterCard(demoCardNumber, demoPIN,
		core.Account{Number: "100-200-300", Name: "checking", Balance: 50_000},
		core.Account{Number: "100-200-301", Name: "savings", Balance: 250_000},
	)

	box := config.CashBoxFromEnv()
	recorder := journal.NewMemoryRecorder()
	executor := teller.NewExecutor(teller.WithLogger(logger))

	machine, err := session.NewMachine(&box, authority, executor,
		session.WithLogger(logger),
		session.WithJournal(recorder),
	)
	if err != nil {
		return err
	}

	facade, err := atm.New(machine, atm.WithLogger(logger))
	if err != nil {
		return err
	}

	facade.RegisterOnLoad(func(state core.State) {
		fmt.Println("  -> screen now shows:", state)
	})

	card := core.BuildCard(demoCardNumber, core.Holder{Name: "Jane Roe"})

	steps := []struct {
		name string
		call func() error
	}{
		{"insert card", func() error { return facade.InsertCard(ctx, card) }},
		{"enter pin", func() error { return facade.EnterPIN(ctx, demoPIN) }},
		{"select first account", func() error { return facade.SelectAccount(ctx, 0) }},
		{"select deposit", func() error { return facade.SelectDeposit(ctx) }},
		{"put in 10000", func() error { return facade.PutInCash(ctx, 10_000) }},
		{"back to menu", func() error { return facade.Back(ctx) }},
		{"select account again", func() error { return facade.SelectAccount(ctx, 0) }},
		{"select withdraw", func() error { return facade.SelectWithdraw(ctx) }},
		{"request 5000", func() error { return facade.EnterWithdrawalAmount(ctx, 5_000) }},
		{"take the cash", func() error { return facade.TakeOutCash(ctx, 5_000) }},
		{"leave", func() error { return facade.Exit(ctx) }},
		{"take the card", func() error { return facade.TakeOutCard(ctx) }},
	}

	for _, step := range steps {
		fmt.Println("customer:", step.name)

		if stepErr := step.call(); stepErr != nil {
			return fmt.Errorf("%s: %w", step.name, stepErr)
		}
	}

	fmt.Println("cash box now holds:", box.Cash)
	fmt.Println("journal entries:")

	for _, entry := range recorder.Entries() {
		fmt.Printf("  %-21s amount=%6d cash_after=%7d balance_after=%7d\n",
			entry.Kind, entry.Amount, entry.CashAfter, entry.BalanceAfter)
	}

	return nil
}
