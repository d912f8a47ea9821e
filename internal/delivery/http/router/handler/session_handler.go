package handler

import (
	"net/http"
	"time"

	"cafeadmin/internal/delivery/http/response"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler signs the admin in.
type SessionHandler struct {
	uc usecase.SessionUsecase
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

type loginRequest struct {
	ID       string `json:"id" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /session
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.NewMalformedInputError(err, "login body must be {id, password}")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, session, err := h.uc.Login(c.Request().Context(), entity.Credential{ID: req.ID, Password: req.Password})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
	})
}
