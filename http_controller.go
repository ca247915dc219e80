package accounts

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrMissingBearerToken is returned when a protected route is hit without
// an Authorization header.
var ErrMissingBearerToken = goerrors.New("missing bearer token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// AccountController exposes the workflows over HTTP. Every handler returns
// either a public projection or a typed error the mapper translates into a
// status code.
type AccountController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auth   *Authenticator

	register       *RegisterAccountHandler
	changeRole     *ChangeRoleHandler
	changeActivity *ChangeActivityHandler
	changeField    *ChangeFieldHandler
	email          *EmailHandler
	deleteAccount  *DeleteAccountHandler
}

// AccountControllerOption customizes controller construction.
type AccountControllerOption func(*AccountController) *AccountController

func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Debug = debug
		return c
	}
}

func NewAccountController(repo RepositoryManager, auth *Authenticator, opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger: defLogger{},
		Repo:   repo,
		Auth:   auth,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in account controller...")
	}

	if c.Auth == nil {
		panic("Missing Authenticator in account controller...")
	}

	c.register = NewRegisterAccountHandler(c.Repo).WithLogger(c.Logger)
	c.changeRole = NewChangeRoleHandler(c.Repo).WithLogger(c.Logger)
	c.changeActivity = NewChangeActivityHandler(c.Repo).WithLogger(c.Logger)
	c.changeField = NewChangeFieldHandler(c.Repo).WithLogger(c.Logger)
	c.email = NewEmailHandler(c.Repo).WithLogger(c.Logger)
	c.deleteAccount = NewDeleteAccountHandler(c.Repo).WithLogger(c.Logger)

	return c
}

// RegisterRoutes mounts the account API. The /me routes must register
// before /:id so fiber matches them first.
func (a *AccountController) RegisterRoutes(app *fiber.App) {
	api := app.Group("/accounts")

	api.Post("/", a.RegisterPost)
	api.Post("/login", a.LoginPost)
	api.Post("/refresh", a.RefreshPost)

	api.Get("/", a.Index)
	api.Get("/me", a.Me)
	api.Patch("/me/field", a.FieldPatch)
	api.Put("/me/email", a.EmailPut)
	api.Post("/me/email/verify", a.EmailVerifyPost)
	api.Delete("/me/email", a.EmailDelete)

	api.Get("/:id", a.Show)
	api.Delete("/:id", a.Destroy)
	api.Patch("/:id/role", a.RolePatch)
	api.Patch("/:id/activity", a.ActivityPatch)
}

func (a *AccountController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterAccountMessage)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if a.Debug {
		a.Logger.Debug("register payload: %s", print.MaybePrettyJSON(map[string]any{
			"login":    payload.Login,
			"nickname": payload.Nickname,
		}))
	}

	account, err := a.register.Execute(ctx.Context(), *payload)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(account)
}

// LoginRequest payload
type LoginRequest struct {
	Login    string `form:"login" json:"login"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AccountController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithCode(goerrors.CodeBadRequest))
	}

	pair, err := a.Auth.Login(ctx.Context(), payload.Login, payload.Password)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(pair)
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *AccountController) RefreshPost(ctx *fiber.Ctx) error {
	payload := new(RefreshRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid refresh payload").
			WithCode(goerrors.CodeBadRequest))
	}

	access, err := a.Auth.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"access_token": access})
}

func (a *AccountController) Me(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	account, err := a.Auth.AccountFromClaims(ctx.Context(), claims)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(NewPublicAccount(account))
}

func (a *AccountController) Index(ctx *fiber.Ctx) error {
	if _, err := a.sessionClaims(ctx); err != nil {
		return a.writeError(ctx, err)
	}

	records, err := a.Repo.Accounts().List(ctx.Context())
	if err != nil {
		return a.writeError(ctx, err)
	}

	out := make([]*PublicAccount, 0, len(records))
	for _, record := range records {
		out = append(out, NewPublicAccount(record))
	}

	return ctx.JSON(out)
}

func (a *AccountController) Destroy(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	targetID, err := pathID(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	if err := a.deleteAccount.Execute(ctx.Context(), DeleteAccountMessage{
		ActorID:  actorID,
		TargetID: targetID,
	}); err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (a *AccountController) Show(ctx *fiber.Ctx) error {
	if _, err := a.sessionClaims(ctx); err != nil {
		return a.writeError(ctx, err)
	}

	id, err := pathID(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	account, err := a.Repo.Accounts().GetByID(ctx.Context(), id)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(NewPublicAccount(account))
}

// ChangeFieldRequest payload
type ChangeFieldRequest struct {
	Field string `form:"field" json:"field"`
	Value string `form:"value" json:"value"`
}

func (r ChangeFieldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Field, validation.Required),
	)
}

func (a *AccountController) FieldPatch(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	payload := new(ChangeFieldRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid field payload").
			WithCode(goerrors.CodeBadRequest))
	}

	change, err := fieldChangeFor(payload.Field, payload.Value)
	if err != nil {
		return a.writeError(ctx, err)
	}

	account, err := a.changeField.Execute(ctx.Context(), ChangeFieldMessage{
		ActorID: actorID,
		Change:  change,
	})
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

// SetEmailRequest payload
type SetEmailRequest struct {
	Email string `form:"email" json:"email"`
}

func (r SetEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
	)
}

func (a *AccountController) EmailPut(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	payload := new(SetEmailRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid email payload").
			WithCode(goerrors.CodeBadRequest))
	}

	account, err := a.email.Set(ctx.Context(), actorID, payload.Email)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) EmailVerifyPost(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	account, err := a.email.Verify(ctx.Context(), actorID)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) EmailDelete(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	account, err := a.email.Delete(ctx.Context(), actorID)
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

// ChangeRoleRequest payload
type ChangeRoleRequest struct {
	Role string `form:"role" json:"role"`
}

func (r ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required),
	)
}

func (a *AccountController) RolePatch(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	targetID, err := pathID(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	payload := new(ChangeRoleRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid role payload").
			WithCode(goerrors.CodeBadRequest))
	}

	role, ok := ParseRole(payload.Role)
	if !ok {
		return a.writeError(ctx, ErrInvalidRole)
	}

	account, err := a.changeRole.Execute(ctx.Context(), ChangeRoleMessage{
		ActorID:  actorID,
		TargetID: targetID,
		Role:     role,
	})
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

// ChangeActivityRequest payload. Active is a pointer so an absent flag is
// distinguishable from false.
type ChangeActivityRequest struct {
	Active *bool `form:"active" json:"active"`
}

func (r ChangeActivityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Active, validation.NotNil),
	)
}

func (a *AccountController) ActivityPatch(ctx *fiber.Ctx) error {
	claims, err := a.sessionClaims(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	actorID, err := claims.AccountID()
	if err != nil {
		return a.writeError(ctx, err)
	}

	targetID, err := pathID(ctx)
	if err != nil {
		return a.writeError(ctx, err)
	}

	payload := new(ChangeActivityRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return a.writeError(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.writeError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid activity payload").
			WithCode(goerrors.CodeBadRequest))
	}

	account, err := a.changeActivity.Execute(ctx.Context(), ChangeActivityMessage{
		ActorID:  actorID,
		TargetID: targetID,
		Active:   *payload.Active,
	})
	if err != nil {
		return a.writeError(ctx, err)
	}

	return ctx.JSON(account)
}

func (a *AccountController) sessionClaims(ctx *fiber.Ctx) (*SessionClaims, error) {
	header := ctx.Get(fiber.HeaderAuthorization)

	const scheme = "Bearer "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return nil, ErrMissingBearerToken
	}

	return a.Auth.VerifyAccess(header[len(scheme):])
}

func (a *AccountController) writeError(ctx *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusForCategory(richErr.Category)
	}

	a.Logger.Info(
		"request error",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", ctx.OriginalURL(),
	)

	return ctx.Status(status).JSON(fiber.Map{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fieldChangeFor(field, value string) (FieldChange, error) {
	switch AccountField(field) {
	case FieldNickname:
		return NicknameChange{Nickname: value}, nil
	case FieldLogin:
		return LoginChange{Login: value}, nil
	case FieldBio:
		return BioChange{Bio: value}, nil
	case FieldPassword:
		return PasswordChange{Password: value}, nil
	default:
		return nil, goerrors.New("unknown field: "+field, goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
}

func pathID(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, goerrors.New("invalid account id: "+ctx.Params("id"), goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	return id, nil
}

func badPayload(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse request payload").
		WithCode(goerrors.CodeBadRequest)
}
