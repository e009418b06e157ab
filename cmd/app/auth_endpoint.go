package main

import (
	"net/http"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/config"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sendTokenResponse sets the token cookie and returns the token plus the
// account view. HttpOnly always; Secure only in production.
func sendTokenResponse(c echo.Context, cfg *config.Config, status int, account *model.Account, token string) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.Auth.CookieExpire),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	return c.JSON(status, echo.Map{
		"success": true,
		"token":   token,
		"data":    account,
	})
}

func registerHandler(cfg *config.Config, authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		account, token, err := authSvc.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			return err
		}
		return sendTokenResponse(c, cfg, http.StatusCreated, account, token)
	}
}

func loginHandler(cfg *config.Config, authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		account, token, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return sendTokenResponse(c, cfg, http.StatusOK, account, token)
	}
}

// logoutHandler clears the token cookie. The token itself stays valid until
// expiry; the server keeps no session state to revoke.
func logoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(&http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour),
			HttpOnly: true,
		})
		return respond(c, http.StatusOK, echo.Map{})
	}
}

func meHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		acting := middleware.GetAccount(c)
		account, err := authSvc.GetMe(c.Request().Context(), acting.ID)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, account)
	}
}

func updateDetailsHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(updateDetailsRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		acting := middleware.GetAccount(c)
		account, err := authSvc.UpdateDetails(c.Request().Context(), acting.ID, req.Name, req.Email)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, account)
	}
}

func updatePasswordHandler(cfg *config.Config, authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(updatePasswordRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		acting := middleware.GetAccount(c)
		token, err := authSvc.UpdatePassword(c.Request().Context(), acting.ID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			return err
		}
		return sendTokenResponse(c, cfg, http.StatusOK, acting, token)
	}
}

func forgotPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		if err := authSvc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
			return err
		}
		return respond(c, http.StatusOK, "email sent")
	}
}

func resetPasswordHandler(cfg *config.Config, authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		account, token, err := authSvc.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
		if err != nil {
			return err
		}
		return sendTokenResponse(c, cfg, http.StatusOK, account, token)
	}
}

func registerAuthRoutes(g *echo.Group, cfg *config.Config, authSvc *services.AuthService, jwt *middleware.JWTManager) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", registerHandler(cfg, authSvc))
	auth.POST("/login", loginHandler(cfg, authSvc))
	auth.GET("/logout", logoutHandler())
	auth.POST("/forgotpassword", forgotPasswordHandler(authSvc))
	auth.PUT("/resetpassword/:token", resetPasswordHandler(cfg, authSvc))

	// authenticated
	protected := auth.Group("")
	protected.Use(jwt.Protect())
	protected.GET("/me", meHandler(authSvc))
	protected.PUT("/updatedetails", updateDetailsHandler(authSvc))
	protected.PUT("/updatepassword", updatePasswordHandler(cfg, authSvc))
}
