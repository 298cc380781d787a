package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// userplan grants or revokes the pro tier for a user by writing subscription
// records directly. Granting cancels any existing qualifying records first
// so a user never ends up with more than one.
func main() {
	var (
		idFlag       string
		planFlag     string
		daysFlag     int
		customerFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, pro)")
	flag.IntVar(&daysFlag, "days", 30, "subscription period length in days when granting pro")
	flag.StringVar(&customerFlag, "customer-ref", "manual", "billing customer reference to record")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	plan := strings.TrimSpace(strings.ToLower(planFlag))

	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	switch plan {
	case "free", "pro":
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}
	if plan == "pro" && daysFlag <= 0 {
		exitWithError(errors.New("-days must be positive when granting pro"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if _, err := runner.Exec(ctx, sqlinline.QCancelSubscriptions, userID); err != nil {
		exitWithError(fmt.Errorf("failed to cancel existing subscriptions: %w", err))
	}

	if plan == "free" {
		fmt.Printf("User %s downgraded to free\n", userID)
		return
	}

	periodEnd := time.Now().UTC().AddDate(0, 0, daysFlag)
	row := runner.QueryRow(ctx, sqlinline.QGrantSubscription, userID, customerFlag, periodEnd)

	var (
		subID        string
		subUserID    string
		customerRef  string
		status       string
		subPeriodEnd time.Time
	)
	if err := row.Scan(&subID, &subUserID, &customerRef, &status, &subPeriodEnd); err != nil {
		exitWithError(fmt.Errorf("failed to grant subscription: %w", err))
	}

	fmt.Printf("User %s granted pro until %s (subscription %s, status %s)\n",
		subUserID, subPeriodEnd.Format(time.RFC3339), subID, status)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
