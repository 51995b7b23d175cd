package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextUserKey = "user"
)

func init() {
	appJWTConfig.SigningKey = core.Conf.SecretKey
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	FullName string `json:"fullname,omitempty"`
	Role     string `json:"role,omitempty"`
	Class    string `json:"class,omitempty"`
}

func getUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(core.Conf.SessionLifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		FullName: usr.FullName,
		Role:     usr.Role,
		Class:    usr.Class,
	}
}

func authenticate(uname, pwd string, svc user.Service) (user.User, *Claims, error) {
	if usr, err := svc.GetByUsername(uname); err == nil {
		if err := usr.CheckPassword(pwd); err == nil {
			if !usr.IsActive {
				return user.User{}, nil, errAccountDeactivated
			}
			if usr, err = svc.SetLastLogin(usr); err != nil {
				return user.User{}, nil, errors.Wrap(err, "setting last login")
			}
			return usr, getUserClaims(usr), nil
		}
	}
	return user.User{}, nil, errAuthenticationFailed
}

// generateToken generates a signed JWT token string representing the user Claims.
func generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey.([]byte))
	if err != nil {
		return "", errTokenSigningFailed
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}

	usr, err := svc.GetByID(claims.Subject)
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
