package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AdminResetPasswordMessage carries an admin-driven password reset. The
// boundary layer is responsible for checking the caller's admin privilege
// before dispatching it.
type AdminResetPasswordMessage struct {
	TargetID    string `json:"target_id"`
	NewPassword string `json:"new_password"`
}

func (e AdminResetPasswordMessage) Type() string { return "account.password.admin_reset" }

func (e AdminResetPasswordMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.TargetID, validation.Required, is.UUID),
		validation.Field(&e.NewPassword, validation.Required),
	)
}

// AdminResetPasswordHandler executes password resets for message-driven callers.
type AdminResetPasswordHandler struct {
	manager *AccountManager
}

func NewAdminResetPasswordHandler(manager *AccountManager) *AdminResetPasswordHandler {
	return &AdminResetPasswordHandler{manager: manager}
}

func (h *AdminResetPasswordHandler) Execute(ctx context.Context, event AdminResetPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *AdminResetPasswordHandler) execute(ctx context.Context, event AdminResetPasswordMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	targetID, err := uuid.Parse(event.TargetID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid target account id")
	}

	return h.manager.AdminResetPassword(ctx, targetID, event.NewPassword)
}
