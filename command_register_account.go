package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// RegisterAccountMessage carries a registration request. PatientID links
// portal-style viewer accounts to their patient record. UseHashid derives a
// deterministic account ID from the email, which keeps bulk provisioning
// idempotent.
type RegisterAccountMessage struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	PatientID string `json:"patient_id"`
	UseHashid bool
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// Validate checks payload shape; business rules (email uniqueness, password
// strength against configuration) stay in the engine.
func (e RegisterAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.FullName, validation.Required),
		validation.Field(&e.Password, validation.Required),
		validation.Field(&e.Role, validation.In(
			string(RoleViewer),
			string(RoleContributor),
			string(RoleAdmin),
		)),
	)
}

func (e RegisterAccountMessage) toUser() (*User, error) {
	user := &User{
		Email:    e.Email,
		FullName: e.FullName,
		Role:     UserRole(e.Role),
		Active:   true,
	}

	if e.PatientID != "" {
		patientID, err := uuid.Parse(e.PatientID)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid patient link").
				WithMetadata(map[string]any{"patient_id": e.PatientID})
		}
		user.PatientID = &patientID
	}

	if e.UseHashid {
		if id, err := hashid.NewUUID(e.Email); err == nil {
			user.ID = id
		}
	}

	return user, nil
}

// RegisterAccountHandler executes registrations for message-driven callers.
type RegisterAccountHandler struct {
	manager *AccountManager
}

func NewRegisterAccountHandler(manager *AccountManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{manager: manager}
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		_, err := h.manager.Register(ctx, event)
		return err
	}
}
