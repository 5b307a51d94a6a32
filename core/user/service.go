package user

import (
	"context"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core"
)

var (
	// errors
	ErrNotFound         = errors.New("user not found")
	ErrUserExists       = errors.New("User already exists")
	ErrPermissionExists = errors.New("There is already a permission with this name")
	ErrLinkExists       = errors.New("This user already has this permission")

	errIncorrectPassword = "Incorrect password"
	errSamePassword      = "New password cannot be the same as old password"
	errUserDoesNotExist  = "User does not exist"
	errSchoolDoesNotExist = "This school doesn't exist"
	errPermDoesNotExist  = "This permission does not exist"
	errUserIDDoesNotExist = "This user does not exist"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		UserExists(ctx context.Context, id int) (bool, error)

		CreatePermission(ctx context.Context, p Permission) (Permission, error)
		GetPermission(ctx context.Context, name string) (Permission, error)
		LinkUserPermission(ctx context.Context, link UserPermission) error
	}

	// SchoolChecker reports whether a school row exists; satisfied by the
	// org repository.
	SchoolChecker interface {
		SchoolExists(ctx context.Context, id int) (bool, error)
	}

	Service interface {
		Signup(ctx context.Context, su SignupUser) (User, error)
		Authenticate(ctx context.Context, email, password string) (User, error)
		ChangePassword(ctx context.Context, usr User, cp ChangePassword) error
		UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		CreatePermission(ctx context.Context, np NewPermission) (Permission, error)
		GrantPermission(ctx context.Context, link UserPermission) error
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
	}

	service struct {
		repo       Repository
		schools    SchoolChecker
		mailSvc    core.EmailService
		conf       *core.Config
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	schools SchoolChecker,
	mailSvc core.EmailService,
	conf *core.Config,
	validate *validator.Validate,
	translator ut.Translator,
) Service {
	return &service{
		repo:       repo,
		schools:    schools,
		mailSvc:    mailSvc,
		conf:       conf,
		validate:   validate,
		translator: translator,
	}
}

func (svc *service) Signup(ctx context.Context, su SignupUser) (User, error) {
	su.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &su)
	if _, err := svc.repo.GetUserByEmail(ctx, su.Email); err == nil {
		flds = append(flds, core.FieldError{Field: "all", Error: ErrUserExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}
	if len(flds) > 0 {
		return User{}, core.NewValidationError(nil, flds...)
	}

	now := time.Now().UTC()
	usr := User{
		Email:     su.Email,
		FirstName: su.FirstName,
		LastName:  su.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(su.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		// the pre-check above is not atomic with the insert; the unique
		// constraint is the true backstop for concurrent signups
		if errors.Cause(err) == ErrUserExists {
			return User{}, core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrUserExists.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = core.CleanString(email, true /* lower */)

	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, core.NewValidationError(nil, core.FieldError{Field: "email", Error: errUserDoesNotExist})
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "password", Error: errIncorrectPassword})
	}
	return usr, nil
}

func (svc *service) ChangePassword(ctx context.Context, usr User, cp ChangePassword) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &cp)
	if cp.OldPassword != "" {
		if err := usr.CheckPassword(cp.OldPassword); err != nil {
			flds = append(flds, core.FieldError{Field: "old_password", Error: errIncorrectPassword})
		}
	}
	if cp.OldPassword != "" && cp.OldPassword == cp.NewPassword {
		flds = append(flds, core.FieldError{Field: "all", Error: errSamePassword})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := usr.SetPassword(cp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating user password")
	}
	return nil
}

func (svc *service) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) (User, error) {
	flds := core.CheckStruct(svc.validate, svc.translator, &patch)
	if patch.SchoolID != nil && *patch.SchoolID != 0 {
		exists, err := svc.schools.SchoolExists(ctx, *patch.SchoolID)
		if err != nil {
			return User{}, errors.Wrap(err, "checking school")
		}
		if !exists {
			flds = append(flds, core.FieldError{Field: "school_id", Error: errSchoolDoesNotExist})
		}
	}
	if len(flds) > 0 {
		return User{}, core.NewValidationError(nil, flds...)
	}

	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, errors.Wrap(err, "finding user by ID")
	}
	patch.Apply(&usr)
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user profile")
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) CreatePermission(ctx context.Context, np NewPermission) (Permission, error) {
	np.Clean()

	flds := core.CheckStruct(svc.validate, svc.translator, &np)
	if len(flds) > 0 {
		return Permission{}, core.NewValidationError(nil, flds...)
	}

	p, err := svc.repo.CreatePermission(ctx, Permission{Name: np.Name})
	if err != nil {
		if errors.Cause(err) == ErrPermissionExists {
			return Permission{}, core.NewValidationError(nil, core.FieldError{Field: "name", Error: ErrPermissionExists.Error()})
		}
		return Permission{}, errors.Wrap(err, "creating permission")
	}
	return p, nil
}

func (svc *service) GrantPermission(ctx context.Context, link UserPermission) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &link)
	if link.PermissionName != "" {
		if _, err := svc.repo.GetPermission(ctx, link.PermissionName); err != nil {
			if errors.Cause(err) != ErrNotFound {
				return errors.Wrap(err, "finding permission")
			}
			flds = append(flds, core.FieldError{Field: "permission_name", Error: errPermDoesNotExist})
		}
	}
	if link.UserID != 0 {
		exists, err := svc.repo.UserExists(ctx, link.UserID)
		if err != nil {
			return errors.Wrap(err, "checking user")
		}
		if !exists {
			flds = append(flds, core.FieldError{Field: "user_id", Error: errUserIDDoesNotExist})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := svc.repo.LinkUserPermission(ctx, link); err != nil {
		if errors.Cause(err) == ErrLinkExists {
			return core.NewValidationError(nil, core.FieldError{Field: "all", Error: ErrLinkExists.Error()})
		}
		return errors.Wrap(err, "linking user and permission")
	}
	return nil
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	flds := core.CheckStruct(svc.validate, svc.translator, &rp)
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	id, err := decodeUserID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = verifyResetToken(usr, rp.Token, svc.conf); err != nil {
		return core.NewValidationError(err)
	}

	if err = usr.SetPassword(rp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating user password")
	}
	return nil
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name(), Address: usr.Email}},
		Subject:      "Welcome to VolunteerHub",
		TemplateName: "welcome",
		TemplateData: struct{ FirstName string }{usr.FirstName},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	token, err := MakeResetToken(usr, svc.conf)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name(), Address: usr.Email}},
		Subject:      "Password reset",
		TemplateName: "password_reset",
		TemplateData: struct {
			FirstName string
			UID       string
			Token     string
		}{usr.FirstName, encodeUID(usr), token},
	})
}
