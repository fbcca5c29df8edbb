package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// UploadPost publishes a forum post. An author may not reuse a title.
func (s *Service) UploadPost(ctx context.Context, actor domain.Actor, input UploadPostInput) (*domain.ForumPost, error) {
	const op = "UploadPost"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	title := strings.TrimSpace(input.Title)

	var (
		post  *domain.ForumPost
		entry domain.AuditEntry
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		taken, err := s.posts.ExistsTitle(txCtx, actor.UserID, title)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if taken {
			return domain.Deny(domain.ReasonDuplicate, "post title")
		}

		post, err = s.posts.Create(txCtx, &domain.ForumPost{
			AuthorID: actor.UserID,
			Title:    title,
			Body:     input.Body,
		})
		if err != nil {
			return duplicate(fmt.Errorf("create post: %w", err), "post title")
		}

		entry, err = s.record(txCtx, actor, domain.TargetForumPost, post.ID, domain.AuditActionUpload, map[string]any{
			domain.DetailAuthorID: post.AuthorID,
			domain.DetailTitle:    post.Title,
		})
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, entry)
	return post, nil
}

// DeletePost removes a forum post.
func (s *Service) DeletePost(ctx context.Context, actor domain.Actor, input DeletePostInput) (*DeleteResult, error) {
	const op = "DeletePost"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result DeleteResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		post, err := s.posts.GetByID(txCtx, input.PostID)
		if err != nil {
			return notFound(fmt.Errorf("get post: %w", err), "post")
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionDeletePost,
			ActorRole:    role,
			TargetUserID: post.AuthorID,
		}); err != nil {
			return err
		}

		if err := s.posts.Delete(txCtx, post.ID); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetForumPost, post.ID, domain.AuditActionDelete, map[string]any{
			domain.DetailAuthorID: post.AuthorID,
			domain.DetailTitle:    post.Title,
		})
		if err != nil {
			return err
		}

		result = DeleteResult{
			TargetKind: domain.TargetForumPost,
			TargetID:   post.ID,
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
