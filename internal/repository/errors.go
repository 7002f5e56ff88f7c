package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate")
	ErrInvalidID           = errors.New("invalid id")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrTxAborted           = errors.New("transaction aborted")
	// ErrStateChanged is returned by conditional updates that matched no row.
	ErrStateChanged = errors.New("state changed concurrently")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeTxAborted           = "25P02"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
)

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case codeForeignKeyViolation:
			return errors.Join(ErrForeignKeyViolation, err)
		case codeCheckViolation:
			return errors.Join(ErrCheckViolation, err)
		case codeInvalidText:
			return errors.Join(ErrInvalidID, err)
		case codeTxAborted:
			return errors.Join(ErrTxAborted, err)
		}
	}

	return err
}

// IsRetryable reports whether a raw driver error may succeed on a new attempt.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	for _, sentinel := range []error{ErrNotFound, ErrDuplicate, ErrInvalidID, ErrForeignKeyViolation, ErrCheckViolation, ErrTxAborted, ErrStateChanged} {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFail, codeDeadlockDetected:
			return true
		}
		return false
	}

	return true
}
