package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// UploadItem publishes an item owned by the actor. Titles and fingerprints
// are unique across the site.
func (s *Service) UploadItem(ctx context.Context, actor domain.Actor, input UploadItemInput) (*domain.Item, error) {
	const op = "UploadItem"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	title := strings.TrimSpace(input.Title)
	fingerprint := strings.TrimSpace(input.Fingerprint)

	var (
		item  *domain.Item
		entry domain.AuditEntry
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		taken, err := s.items.ExistsTitle(txCtx, title)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if taken {
			return domain.Deny(domain.ReasonDuplicate, "item title")
		}

		taken, err = s.items.ExistsFingerprint(txCtx, fingerprint)
		if err != nil {
			return fmt.Errorf("check fingerprint: %w", err)
		}
		if taken {
			return domain.Deny(domain.ReasonDuplicate, "item fingerprint")
		}

		item, err = s.items.Create(txCtx, &domain.Item{
			OwnerID:     actor.UserID,
			Title:       title,
			Fingerprint: fingerprint,
			Description: input.Description,
		})
		if err != nil {
			return duplicate(fmt.Errorf("create item: %w", err), "item")
		}

		entry, err = s.record(txCtx, actor, domain.TargetItem, item.ID, domain.AuditActionUpload, map[string]any{
			domain.DetailTitle:   item.Title,
			domain.DetailOwnerID: item.OwnerID,
		})
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, entry)
	return item, nil
}

// DeleteItem removes an item together with its comments and participations.
func (s *Service) DeleteItem(ctx context.Context, actor domain.Actor, input DeleteItemInput) (*DeleteResult, error) {
	const op = "DeleteItem"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result DeleteResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		item, err := s.items.GetByID(txCtx, input.ItemID)
		if err != nil {
			return notFound(fmt.Errorf("get item: %w", err), "item")
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionDeleteItem,
			ActorRole:    role,
			TargetUserID: item.OwnerID,
		}); err != nil {
			return err
		}

		entries, err := s.cascade(txCtx, actor, s.itemCascade(), item.ID)
		if err != nil {
			return err
		}

		if err := s.items.Delete(txCtx, item.ID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetItem, item.ID, domain.AuditActionDelete, map[string]any{
			domain.DetailTitle:   item.Title,
			domain.DetailOwnerID: item.OwnerID,
		})
		if err != nil {
			return err
		}

		result = DeleteResult{
			TargetKind: domain.TargetItem,
			TargetID:   item.ID,
			Entries:    append(entries, entry),
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entries...)
	return &result, nil
}
