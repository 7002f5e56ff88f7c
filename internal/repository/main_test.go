//go:build integration
// +build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"pagure/internal/database"
	"pagure/internal/repository"
	"pagure/internal/retry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	db      *pgxpool.Pool
	retrier retry.Retrier
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pagure"),
		postgres.WithUsername("pagure"),
		postgres.WithPassword("pagure"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("start postgres: %v", err)
		return 1
	}
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}

	if err := database.Migrate("../../migrations", url); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}

	db, err = database.Connect(ctx, url)
	if err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer db.Close()

	retrier = retry.New(
		retry.WithMaxAttempts(3),
		retry.WithBackoff(retry.ConstantBackoff(10*time.Millisecond)),
		retry.WithIsRetryableFunc(repository.IsRetryable),
	)

	return m.Run()
}
