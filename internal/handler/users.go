package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/service"
)

// UserHandler serves signup and login.
type UserHandler struct {
	Users *service.UserService
	Log   zerolog.Logger
}

func NewUserHandler(users *service.UserService, log zerolog.Logger) *UserHandler {
	if users == nil {
		panic("nil user service passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResp struct {
	Message   string           `json:"message"`
	User      model.PublicUser `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

func toSessionResp(msg string, s service.Session) sessionResp {
	return sessionResp{
		Message:   msg,
		User:      s.User.Public(),
		Token:     s.Token.Token,
		ExpiresAt: s.Token.Exp,
	}
}

// Signup: POST /api/users
func (h *UserHandler) Signup(c echo.Context) error {
	var in service.SignupInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, h.Log, access.New(access.KindInvalidRequestBody, ""))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Users.Signup(ctx, in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toSessionResp("Your account has been created.", sess))
}

// Login: POST /api/users/login
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, access.New(access.KindInvalidRequestBody, ""))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toSessionResp("You're now logged in.", sess))
}
