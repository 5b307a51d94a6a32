package user

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/dmecc/volunteerhub/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose side effects run synchronously,
// for deterministic tests.
func NewServiceMock(
	repo Repository,
	schools SchoolChecker,
	mailSvc core.EmailService,
	conf *core.Config,
	validate *validator.Validate,
	translator ut.Translator,
) Service {
	return &serviceMock{
		service: service{
			repo:       repo,
			schools:    schools,
			mailSvc:    mailSvc,
			conf:       conf,
			validate:   validate,
			translator: translator,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
