package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// UploadComment attaches a comment by the actor to an item, referenced by id
// or by title.
func (s *Service) UploadComment(ctx context.Context, actor domain.Actor, input UploadCommentInput) (*domain.Comment, error) {
	const op = "UploadComment"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var (
		comment *domain.Comment
		entry   domain.AuditEntry
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		item, err := s.resolveItem(txCtx, input.ItemID, input.ItemTitle)
		if err != nil {
			return err
		}

		comment, err = s.comments.Create(txCtx, &domain.Comment{
			ItemID:   item.ID,
			AuthorID: actor.UserID,
			Body:     input.Body,
		})
		if err != nil {
			// The item vanished between the read and the insert.
			return notFound(fmt.Errorf("create comment: %w", err), "item")
		}

		entry, err = s.record(txCtx, actor, domain.TargetComment, comment.ID, domain.AuditActionUpload, map[string]any{
			domain.DetailItemID:   comment.ItemID,
			domain.DetailAuthorID: comment.AuthorID,
		})
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, entry)
	return comment, nil
}

// DeleteComment removes a single comment.
func (s *Service) DeleteComment(ctx context.Context, actor domain.Actor, input DeleteCommentInput) (*DeleteResult, error) {
	const op = "DeleteComment"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result DeleteResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		comment, err := s.comments.GetByID(txCtx, input.CommentID)
		if err != nil {
			return notFound(fmt.Errorf("get comment: %w", err), "comment")
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionDeleteComment,
			ActorRole:    role,
			TargetUserID: comment.AuthorID,
		}); err != nil {
			return err
		}

		if err := s.comments.Delete(txCtx, comment.ID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetComment, comment.ID, domain.AuditActionDelete, map[string]any{
			domain.DetailItemID:   comment.ItemID,
			domain.DetailAuthorID: comment.AuthorID,
		})
		if err != nil {
			return err
		}

		result = DeleteResult{
			TargetKind: domain.TargetComment,
			TargetID:   comment.ID,
			Entries:    []domain.AuditEntry{entry},
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entries...)
	return &result, nil
}

// resolveItem loads an item by id, falling back to its title.
func (s *Service) resolveItem(ctx context.Context, id int64, title string) (*domain.Item, error) {
	var (
		item *domain.Item
		err  error
	)
	if id > 0 {
		item, err = s.items.GetByID(ctx, id)
	} else {
		item, err = s.items.GetByTitle(ctx, strings.TrimSpace(title))
	}
	if err != nil {
		return nil, notFound(fmt.Errorf("get item: %w", err), "item")
	}
	return item, nil
}
