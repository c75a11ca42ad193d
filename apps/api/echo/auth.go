package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

const (
	userTokenKey = "userToken"
	jwtAudience  = "Campus"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	UserID       int64  `json:"uid"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	ProfileID    *int64 `json:"pid,omitempty"`
}

// SessionUser is the user as seen by its own session.
type SessionUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ProfileID *int64 `json:"profileId"`
}

func (c Claims) SessionUser() SessionUser {
	return SessionUser{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role, ProfileID: c.ProfileID}
}

func (c Claims) User() user.User {
	return user.User{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role, ProfileID: c.ProfileID}
}

// NewClaims builds the claims of a fresh token for usr. origIat is carried over on refresh.
func NewClaims(conf *core.Config, usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   strconv.FormatInt(usr.ID, 10),
			Audience:  jwtAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		UserID:       usr.ID,
		Email:        usr.Email,
		Name:         usr.Name,
		Role:         usr.Role,
		ProfileID:    usr.ProfileID,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    userTokenKey,
		Claims:        new(Claims),
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(userTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type (
	authApi struct {
		conf   *core.Config
		svc    *user.Service
		tokens core.TokenStore
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string      `json:"token"`
		User  SessionUser `json:"user"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Clean() {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
}

func registerAuthAPI(g *echo.Group, guards routeGuards, conf *core.Config, svc *user.Service, tokens core.TokenStore) {
	api := authApi{conf: conf, svc: svc, tokens: tokens}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/register-student", api.registerStudent)
	ag.POST("/register-teacher", api.registerTeacher)
	ag.POST("/logout", api.logout, guards.authed...)
	ag.GET("/me", api.me, guards.authed...)
	ag.POST("/token-refresh", api.refreshToken, guards.authed...)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}

	usr, err := api.svc.GetByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}

	claims := NewClaims(api.conf, usr)
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(api.sessionCookie(token, time.Unix(claims.ExpiresAt, 0)))
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: claims.SessionUser()})
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if err := api.tokens.Revoke(ctx.Request().Context(), claims.Id, ttl); err != nil {
		return errors.Wrap(err, "revoking token")
	}

	cookie := api.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	ctx.SetCookie(cookie)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (api *authApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, claims.SessionUser())
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	newClaims := NewClaims(api.conf, claims.User(), claims.OrigIssuedAt)
	token, err := GenerateToken(api.conf, newClaims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(api.sessionCookie(token, time.Unix(newClaims.ExpiresAt, 0)))
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) registerStudent(ctx echo.Context) error {
	var data user.StudentRegistration
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	res, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *authApi) registerTeacher(ctx echo.Context) error {
	var data user.TeacherRegistration
	if err := bindAndValidate(ctx, &data); err != nil {
		return err
	}
	res, err := api.svc.RegisterTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering teacher")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *authApi) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     api.conf.Server.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
