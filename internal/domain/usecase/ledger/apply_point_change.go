package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
)

// Earn adds points to a user's balance
func (s *Service) Earn(ctx context.Context, userID uint64, description string, points int64) error {
	return s.ApplyPointChange(ctx, usecase.PointChangeRequest{
		UserID:      userID,
		Description: description,
		Points:      points,
		Direction:   entity.DirectionEarn,
	})
}

// Redeem removes points from a user's balance
func (s *Service) Redeem(ctx context.Context, userID uint64, description string, points int64) error {
	return s.ApplyPointChange(ctx, usecase.PointChangeRequest{
		UserID:      userID,
		Description: description,
		Points:      points,
		Direction:   entity.DirectionRedeem,
	})
}

// ApplyPointChange validates the request and runs it on the user's queue
func (s *Service) ApplyPointChange(ctx context.Context, req usecase.PointChangeRequest) error {
	start := s.timeProvider.Now()

	err := s.validate(req)
	if err == nil {
		if s.cfg.OperationTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = s.timeProvider.WithTimeout(ctx, coreport.Duration(s.cfg.OperationTimeout))
			defer cancel()
		}
		err = s.queue.Enqueue(ctx, req)
	}

	s.metrics.ObserveOperation(req.Direction.String(), outcomeOf(err), req.Points, s.timeProvider.Since(start))
	return err
}

// validate checks what can be checked without reading the store
func (s *Service) validate(req usecase.PointChangeRequest) error {
	if req.UserID == 0 {
		return errs.ErrInvalidUserID
	}
	if strings.TrimSpace(req.Description) == "" {
		return errs.ErrEmptyDescription
	}
	_, err := req.Direction.Delta(req.Points)
	return err
}

// apply runs on the user's queue worker. The ledger entry is written before
// the balance, and both happen in one unit of work under a row lock.
func (s *Service) apply(ctx context.Context, req usecase.PointChangeRequest) error {
	delta, err := req.Direction.Delta(req.Points)
	if err != nil {
		return err
	}

	log := s.logger.With(map[string]any{
		"user_id":      req.UserID,
		"direction":    req.Direction.String(),
		"point_change": delta,
	})

	if s.locks != nil {
		if err := s.locks.AcquireLock(ctx, req.UserID, s.cfg.LockTTL); err != nil {
			log.Warn("Failed to acquire user lock", map[string]any{"error": err.Error()})
			return err
		}
		defer func() {
			if releaseErr := s.locks.ReleaseLock(context.WithoutCancel(ctx), req.UserID); releaseErr != nil {
				log.Warn("Failed to release user lock", map[string]any{"error": releaseErr.Error()})
			}
		}()
	}

	var newBalance int64
	err = persistence.WithinTransaction(ctx, s.uow, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)

		user, err := users.GetByIDForUpdate(txCtx, req.UserID)
		if err != nil {
			return err
		}

		if err := user.ApplyPointChange(delta); err != nil {
			return err
		}

		transaction, err := entity.NewTransaction(req.UserID, req.Description, delta)
		if err != nil {
			return err
		}

		if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, transaction); err != nil {
			return errs.NewLedgerError(req.UserID, req.Direction.String(), delta, "create_transaction", err)
		}

		if err := users.SetPointsBalance(txCtx, req.UserID, user.PointsBalance()); err != nil {
			return errs.NewLedgerError(req.UserID, req.Direction.String(), delta, "update_balance", err)
		}

		newBalance = user.PointsBalance()
		return nil
	})

	if err != nil {
		var ledgerErr *errs.LedgerError
		switch {
		case errors.As(err, &ledgerErr):
			log.Error("Failed to apply point change", ledgerErr.LogFields())
		case errs.IsPersistenceError(err):
			log.Error("Failed to apply point change", map[string]any{"error": err.Error()})
		default:
			log.Info("Point change rejected", map[string]any{"reason": err.Error()})
		}
		return err
	}

	log.Info("Points balance updated", map[string]any{"points_balance": newBalance})
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return coreport.OutcomeSuccess
	case errs.IsNotFoundError(err):
		return coreport.OutcomeNotFound
	case errs.IsInvalidArgumentError(err):
		return coreport.OutcomeRejected
	default:
		return coreport.OutcomeFailed
	}
}
