// Package lifecycle owns the request state machine: it validates transitions,
// orchestrates the matching stock side effect, and guarantees no
// partially-applied mutation escapes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
	"github.com/mamadbah2/brooder/pkg/clients/whatsapp"
)

const defaultRejectionReason = "No reason provided"

// IllegalTransitionError reports an attempted state change that is not legal
// from the request's current status.
type IllegalTransitionError struct {
	From      models.RequestStatus
	Attempted models.RequestStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s request", transitionVerb(e.Attempted), e.From)
}

func transitionVerb(status models.RequestStatus) string {
	switch status {
	case models.StatusApproved:
		return "approve"
	case models.StatusRejected:
		return "reject"
	case models.StatusDispatched:
		return "dispatch"
	case models.StatusCanceled:
		return "cancel"
	}
	return "transition"
}

// Repository is the persistence surface the lifecycle manager needs.
type Repository interface {
	FindOrder(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, kind models.RequestKind, id primitive.ObjectID, expect models.RequestStatus, upd models.StatusUpdate) (*models.Order, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Ledger is the stock side-effect surface: reserve on approval, release on
// cancellation.
type Ledger interface {
	Reserve(ctx context.Context, itemType string, qty int) (int, error)
	Release(ctx context.Context, itemType string, qty int) (int, error)
}

// Result is the transition summary relayed to the HTTP layer.
type Result struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"request"`
}

// Service is the request lifecycle manager.
type Service struct {
	repo     Repository
	ledger   Ledger
	notifier whatsapp.Client
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a lifecycle manager. The notifier may be nil, in which case
// transition notifications are skipped.
func NewService(repo Repository, ledger Ledger, notifier whatsapp.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Approve moves a pending request to approved, reserving its stock first. The
// reservation and the status change behave as one atomic unit: if either side
// fails the other is undone before the call returns.
func (s *Service) Approve(ctx context.Context, kind models.RequestKind, requestID, managerID string) (*Result, error) {
	id, manager, err := parseIDs(requestID, managerID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, &IllegalTransitionError{From: order.Status, Attempted: models.StatusApproved}
	}

	if err := s.reserveLines(ctx, order.Reservations); err != nil {
		return nil, err
	}

	upd := models.StatusUpdate{Status: models.StatusApproved, ActorID: manager, At: s.now().UTC()}
	updated, err := s.repo.UpdateOrderStatus(ctx, kind, id, models.StatusPending, upd)
	if err != nil {
		// The stock is already decremented; put it back before reporting.
		s.releaseLines(context.WithoutCancel(ctx), order.Reservations)
		return nil, s.resolveConflict(ctx, kind, id, models.StatusApproved, err)
	}

	s.logger.Info("request approved",
		zap.String("kind", string(kind)),
		zap.String("request_id", requestID),
		zap.String("manager_id", managerID))
	s.notify(updated, fmt.Sprintf("Your %s request %s has been approved.", kind, orderLabel(updated)))

	return &Result{Message: "Request approved successfully", Order: updated}, nil
}

// Reject moves a pending request to rejected. Nothing was reserved yet, so
// there is no stock effect.
func (s *Service) Reject(ctx context.Context, kind models.RequestKind, requestID, managerID, reason string) (*Result, error) {
	id, manager, err := parseIDs(requestID, managerID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = defaultRejectionReason
	}

	order, err := s.repo.FindOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, &IllegalTransitionError{From: order.Status, Attempted: models.StatusRejected}
	}

	upd := models.StatusUpdate{Status: models.StatusRejected, ActorID: manager, At: s.now().UTC(), Reason: reason}
	updated, err := s.repo.UpdateOrderStatus(ctx, kind, id, models.StatusPending, upd)
	if err != nil {
		return nil, s.resolveConflict(ctx, kind, id, models.StatusRejected, err)
	}

	s.logger.Info("request rejected",
		zap.String("kind", string(kind)),
		zap.String("request_id", requestID),
		zap.String("reason", reason))
	s.notify(updated, fmt.Sprintf("Your %s request %s has been rejected: %s", kind, orderLabel(updated), reason))

	return &Result{Message: "Request rejected successfully", Order: updated}, nil
}

// Dispatch moves an approved request to dispatched. Stock moved at approval,
// so there is no further inventory effect. A repeated dispatch fails without
// re-stamping the dispatch time.
func (s *Service) Dispatch(ctx context.Context, kind models.RequestKind, requestID, managerID string) (*Result, error) {
	id, manager, err := parseIDs(requestID, managerID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusApproved {
		return nil, &IllegalTransitionError{From: order.Status, Attempted: models.StatusDispatched}
	}

	upd := models.StatusUpdate{Status: models.StatusDispatched, ActorID: manager, At: s.now().UTC()}
	updated, err := s.repo.UpdateOrderStatus(ctx, kind, id, models.StatusApproved, upd)
	if err != nil {
		return nil, s.resolveConflict(ctx, kind, id, models.StatusDispatched, err)
	}

	s.logger.Info("request dispatched",
		zap.String("kind", string(kind)),
		zap.String("request_id", requestID))
	s.notify(updated, fmt.Sprintf("Your %s request %s has been dispatched.", kind, orderLabel(updated)))

	return &Result{Message: "Request dispatched successfully", Order: updated}, nil
}

// Cancel moves an approved request to canceled and restores its reserved
// stock. The release and the status change behave as one atomic unit.
func (s *Service) Cancel(ctx context.Context, kind models.RequestKind, requestID, managerID, reason string) (*Result, error) {
	id, manager, err := parseIDs(requestID, managerID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Canceled by manager"
	}

	order, err := s.repo.FindOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusApproved {
		return nil, &IllegalTransitionError{From: order.Status, Attempted: models.StatusCanceled}
	}

	if err := s.restoreLines(ctx, order.Reservations); err != nil {
		return nil, err
	}

	upd := models.StatusUpdate{Status: models.StatusCanceled, ActorID: manager, At: s.now().UTC(), Reason: reason}
	updated, err := s.repo.UpdateOrderStatus(ctx, kind, id, models.StatusApproved, upd)
	if err != nil {
		// The stock is already restored; take the reservation back before
		// reporting so the ledger matches the request's surviving status.
		s.reReserveLines(context.WithoutCancel(ctx), order.Reservations)
		return nil, s.resolveConflict(ctx, kind, id, models.StatusCanceled, err)
	}

	s.logger.Info("request canceled",
		zap.String("kind", string(kind)),
		zap.String("request_id", requestID),
		zap.String("reason", reason))
	s.notify(updated, fmt.Sprintf("Your %s request %s has been canceled: %s", kind, orderLabel(updated), reason))

	return &Result{Message: "Request canceled successfully", Order: updated}, nil
}

// reserveLines reserves every line, rolling back the ones already taken when a
// later line fails so a multi-line approval is all-or-nothing.
func (s *Service) reserveLines(ctx context.Context, lines []models.ReservationLine) error {
	for i, line := range lines {
		if _, err := s.ledger.Reserve(ctx, line.ItemType, line.Quantity); err != nil {
			s.releaseLines(ctx, lines[:i])
			return err
		}
	}
	return nil
}

// restoreLines releases every line, re-reserving the ones already released
// when a later line fails.
func (s *Service) restoreLines(ctx context.Context, lines []models.ReservationLine) error {
	for i, line := range lines {
		if _, err := s.ledger.Release(ctx, line.ItemType, line.Quantity); err != nil {
			s.reReserveLines(ctx, lines[:i])
			return err
		}
	}
	return nil
}

func (s *Service) releaseLines(ctx context.Context, lines []models.ReservationLine) {
	for _, line := range lines {
		if _, err := s.ledger.Release(ctx, line.ItemType, line.Quantity); err != nil {
			s.logger.Error("compensating stock release failed",
				zap.String("item_type", line.ItemType),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
		}
	}
}

func (s *Service) reReserveLines(ctx context.Context, lines []models.ReservationLine) {
	for _, line := range lines {
		if _, err := s.ledger.Reserve(ctx, line.ItemType, line.Quantity); err != nil {
			s.logger.Error("compensating stock reserve failed",
				zap.String("item_type", line.ItemType),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
		}
	}
}

// resolveConflict turns a failed conditional status write into the error the
// caller should see: a concurrent transition surfaces as an illegal transition
// from the fresh status, anything else passes through.
func (s *Service) resolveConflict(ctx context.Context, kind models.RequestKind, id primitive.ObjectID, attempted models.RequestStatus, err error) error {
	if !errors.Is(err, mongodb.ErrStatusConflict) {
		return err
	}
	order, readErr := s.repo.FindOrder(ctx, kind, id)
	if readErr != nil {
		return readErr
	}
	return &IllegalTransitionError{From: order.Status, Attempted: attempted}
}

func (s *Service) notify(order *models.Order, body string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		to := order.FarmerPhone
		if to == "" {
			user, err := s.repo.FindUserByID(ctx, order.Farmer)
			if err != nil {
				s.logger.Warn("farmer lookup for notification failed", zap.Error(err))
				return
			}
			to = user.Phone
		}
		if to == "" {
			return
		}
		if _, err := s.notifier.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{To: to, Body: body}); err != nil {
			s.logger.Warn("farmer notification failed", zap.String("to", to), zap.Error(err))
		}
	}()
}

func orderLabel(order *models.Order) string {
	if order.Reference != "" {
		return order.Reference
	}
	return order.ID.Hex()
}

func parseIDs(requestID, managerID string) (primitive.ObjectID, primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID,
			fmt.Errorf("request id %q: %w", requestID, mongodb.ErrNotFound)
	}
	manager, err := primitive.ObjectIDFromHex(managerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID,
			fmt.Errorf("invalid manager id %q", managerID)
	}
	return id, manager, nil
}
