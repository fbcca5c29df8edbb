package lifecycle

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const (
	maxUsernameLength    = 100
	maxEmailLength       = 100
	maxPasswordLength    = 72
	maxTitleLength       = 200
	maxFingerprintLength = 255
	maxDescriptionLength = 255
	maxCommentLength     = 500
	maxPostBodyLength    = 1000
)

// checkText appends a field error when value is blank or longer than max.
func checkText(errs []domain.FieldError, field, value string, max int) []domain.FieldError {
	switch {
	case strings.TrimSpace(value) == "":
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	case len(value) > max:
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	return errs
}

func checkID(errs []domain.FieldError, field string, id int64) []domain.FieldError {
	if id <= 0 {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	return errs
}

func validationResult(errs []domain.FieldError) error {
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

// RegisterInput holds parameters for account registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Validate validates the registration input. Password length bounds come
// from configuration.
func (i RegisterInput) Validate(minPasswordLength int) error {
	var errs []domain.FieldError

	errs = checkText(errs, "username", i.Username, maxUsernameLength)
	errs = checkText(errs, "email", i.Email, maxEmailLength)
	if strings.TrimSpace(i.Email) != "" {
		if _, err := mail.ParseAddress(i.Email); err != nil {
			errs = append(errs, domain.FieldError{Field: "email", Message: "invalid format"})
		}
	}

	switch {
	case i.Password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case len(i.Password) < minPasswordLength:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	case len(i.Password) > maxPasswordLength:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	return validationResult(errs)
}

// LoginInput holds credentials for login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError
	errs = checkText(errs, "email", i.Email, maxEmailLength)
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}
	return validationResult(errs)
}

// ChangeRoleInput holds parameters for a role change.
type ChangeRoleInput struct {
	TargetUserID int64
	Role         domain.Role
}

// Validate validates the role change input.
func (i ChangeRoleInput) Validate() error {
	var errs []domain.FieldError
	errs = checkID(errs, "target_user_id", i.TargetUserID)
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be one of guest, user, moderator, owner"})
	}
	return validationResult(errs)
}

// AddRatingInput holds parameters for a rating change. The target is given
// either by id or by username. The delta range is a permission rule, not an
// input check, so out-of-range deltas are rejected with invalid_range.
type AddRatingInput struct {
	TargetUserID   int64
	TargetUsername string
	Delta          int
}

// Validate validates the rating input.
func (i AddRatingInput) Validate() error {
	if i.TargetUserID <= 0 && strings.TrimSpace(i.TargetUsername) == "" {
		return domain.NewValidationError("target", "user id or username required")
	}
	return nil
}

// DeleteUserInput holds parameters for account deletion.
type DeleteUserInput struct {
	UserID int64
}

// Validate validates the delete user input.
func (i DeleteUserInput) Validate() error {
	return validationResult(checkID(nil, "user_id", i.UserID))
}

// BootstrapOwnerInput names the account to promote to owner.
type BootstrapOwnerInput struct {
	Email string
}

// Validate validates the bootstrap input.
func (i BootstrapOwnerInput) Validate() error {
	return validationResult(checkText(nil, "email", i.Email, maxEmailLength))
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

// UploadItemInput holds parameters for publishing an item.
type UploadItemInput struct {
	Title       string
	Fingerprint string
	Description string
}

// Validate validates the item upload input.
func (i UploadItemInput) Validate() error {
	var errs []domain.FieldError
	errs = checkText(errs, "title", i.Title, maxTitleLength)
	errs = checkText(errs, "fingerprint", i.Fingerprint, maxFingerprintLength)
	errs = checkText(errs, "description", i.Description, maxDescriptionLength)
	return validationResult(errs)
}

// DeleteItemInput holds parameters for item deletion.
type DeleteItemInput struct {
	ItemID int64
}

// Validate validates the delete item input.
func (i DeleteItemInput) Validate() error {
	return validationResult(checkID(nil, "item_id", i.ItemID))
}

// UploadCommentInput holds parameters for commenting on an item. The item is
// given either by id or by its unique title.
type UploadCommentInput struct {
	ItemID    int64
	ItemTitle string
	Body      string
}

// Validate validates the comment upload input.
func (i UploadCommentInput) Validate() error {
	var errs []domain.FieldError
	if i.ItemID <= 0 && strings.TrimSpace(i.ItemTitle) == "" {
		errs = append(errs, domain.FieldError{Field: "item", Message: "item id or title required"})
	}
	errs = checkText(errs, "body", i.Body, maxCommentLength)
	return validationResult(errs)
}

// DeleteCommentInput holds parameters for comment deletion.
type DeleteCommentInput struct {
	CommentID int64
}

// Validate validates the delete comment input.
func (i DeleteCommentInput) Validate() error {
	return validationResult(checkID(nil, "comment_id", i.CommentID))
}

// UploadPostInput holds parameters for a forum post.
type UploadPostInput struct {
	Title string
	Body  string
}

// Validate validates the forum post input.
func (i UploadPostInput) Validate() error {
	var errs []domain.FieldError
	errs = checkText(errs, "title", i.Title, maxTitleLength)
	errs = checkText(errs, "body", i.Body, maxPostBodyLength)
	return validationResult(errs)
}

// DeletePostInput holds parameters for forum post deletion.
type DeletePostInput struct {
	PostID int64
}

// Validate validates the delete post input.
func (i DeletePostInput) Validate() error {
	return validationResult(checkID(nil, "post_id", i.PostID))
}

// ---------------------------------------------------------------------------
// Participation
// ---------------------------------------------------------------------------

// ParticipationInput identifies the item whose participation changes.
// The user is always the actor.
type ParticipationInput struct {
	ItemID int64
}

// Validate validates the participation input.
func (i ParticipationInput) Validate() error {
	return validationResult(checkID(nil, "item_id", i.ItemID))
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// PageInput holds offset pagination parameters.
type PageInput struct {
	Limit  int
	Offset int
}

// Validate validates pagination parameters.
func (i PageInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	return validationResult(errs)
}

// AuditLogInput filters the audit log listing.
type AuditLogInput struct {
	PageInput
	ActorID    *int64
	TargetKind domain.TargetKind
	TargetID   *int64
	Action     domain.AuditAction
}

// Validate validates the audit log filter.
func (i AuditLogInput) Validate() error {
	var errs []domain.FieldError
	if err := i.PageInput.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		}
	}
	if i.TargetKind != "" && !i.TargetKind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target_kind", Message: "invalid target kind"})
	}
	if i.Action != "" && !i.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "invalid action"})
	}
	return validationResult(errs)
}
