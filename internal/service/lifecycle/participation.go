package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

// BeginParticipation starts downloading an item.
func (s *Service) BeginParticipation(ctx context.Context, actor domain.Actor, input ParticipationInput) (*ParticipationResult, error) {
	return s.transition(ctx, "BeginParticipation", actor, input, domain.EventBegin)
}

// PromoteParticipation moves a download to seeding.
func (s *Service) PromoteParticipation(ctx context.Context, actor domain.Actor, input ParticipationInput) (*ParticipationResult, error) {
	return s.transition(ctx, "PromoteParticipation", actor, input, domain.EventPromote)
}

// DemoteParticipation moves seeding back to downloading.
func (s *Service) DemoteParticipation(ctx context.Context, actor domain.Actor, input ParticipationInput) (*ParticipationResult, error) {
	return s.transition(ctx, "DemoteParticipation", actor, input, domain.EventDemote)
}

// RemoveParticipation ends the actor's participation in an item.
func (s *Service) RemoveParticipation(ctx context.Context, actor domain.Actor, input ParticipationInput) (*ParticipationResult, error) {
	return s.transition(ctx, "RemoveParticipation", actor, input, domain.EventRemove)
}

// ToggleParticipation advances the participation one step in the
// absent, downloading, seeding cycle; seeding toggles back to downloading.
func (s *Service) ToggleParticipation(ctx context.Context, actor domain.Actor, input ParticipationInput) (*ParticipationResult, error) {
	return s.transition(ctx, "ToggleParticipation", actor, input, domain.EventToggle)
}

// transition applies event to the actor's participation in the item. The
// existing row is locked for the rest of the transaction; a concurrent
// first begin loses on the unique (user_id, item_id) key.
func (s *Service) transition(
	ctx context.Context,
	op string,
	actor domain.Actor,
	input ParticipationInput,
	event domain.ParticipationEvent,
) (*ParticipationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result ParticipationResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		if _, err := s.items.GetByID(txCtx, input.ItemID); err != nil {
			return notFound(fmt.Errorf("get item: %w", err), "item")
		}

		key := domain.ParticipationKey{UserID: actor.UserID, ItemID: input.ItemID}

		current, err := s.participations.GetForUpdate(txCtx, key)
		from := domain.ParticipationAbsent
		switch {
		case errors.Is(err, domain.ErrNotFound):
			current = nil
		case err != nil:
			return fmt.Errorf("get participation: %w", err)
		default:
			from = current.State
		}

		t, err := domain.NextParticipation(from, event)
		if err != nil {
			return err
		}

		var p *domain.Participation
		switch {
		case t.Creates():
			p, err = s.participations.Create(txCtx, key, t.To)
			if err != nil {
				return duplicate(fmt.Errorf("create participation: %w", err), "participation")
			}
		case t.Deletes():
			if err := s.participations.Delete(txCtx, current.ID); err != nil {
				return fmt.Errorf("delete participation: %w", err)
			}
		default:
			p, err = s.participations.UpdateState(txCtx, current.ID, t.To)
			if err != nil {
				return fmt.Errorf("update participation: %w", err)
			}
		}

		targetID := current.GetID()
		if p != nil {
			targetID = p.ID
		}

		entry, err := s.record(txCtx, actor, domain.TargetParticipation, targetID, t.Action, map[string]any{
			domain.DetailUserID: key.UserID,
			domain.DetailItemID: key.ItemID,
			domain.DetailFrom:   t.From.String(),
			domain.DetailTo:     t.To.String(),
		})
		if err != nil {
			return err
		}

		result = ParticipationResult{Participation: p, Transition: t, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entry)
	return &result, nil
}
