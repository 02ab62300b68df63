package v1

import (
	"context"
	"net/http"
	"time"

	"event-staffing-backend/internal/delivery/http/middleware"
	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/session"
	"event-staffing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authUC  domain.AuthUsecase
	manager *session.Manager
	cookie  CookieConfig
}

func NewAuthHandler(public *gin.RouterGroup, loginLimited gin.HandlerFunc, authUC domain.AuthUsecase, manager *session.Manager, cookie CookieConfig) {
	handler := &AuthHandler{
		authUC:  authUC,
		manager: manager,
		cookie:  cookie,
	}

	auth := public.Group("/auth")
	{
		auth.GET("/login", handler.LoginPage)
		auth.POST("/login", loginLimited, handler.Login)
		auth.GET("/register", handler.RegisterPage)
		auth.POST("/register", loginLimited, handler.Register)
		auth.POST("/logout", handler.Logout)
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Redirect string `json:"redirect"`
}

// LoginPage godoc
// @Summary      Login page
// @Description  Echoes the redirect target and the reason the user was sent here
// @Tags         auth
// @Produce      json
// @Param        redirect  query  string  false  "Path to return to after sign-in"
// @Param        error     query  string  false  "session_expired"
// @Success      200  {object}  response.Response
// @Router       /auth/login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	state := middleware.CurrentState(c)
	response.Success(c, http.StatusOK, "Login", gin.H{
		"signedIn": state.SignedIn(),
		"redirect": safeRedirect(c.Query("redirect")),
		"error":    c.Query("error"),
	})
}

// Login godoc
// @Summary      User Login
// @Description  Sign in with email and password. Sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	key := uuid.NewString()
	if _, err := h.authUC.SignIn(c.Request.Context(), key, req.Email, req.Password, c.ClientIP()); err != nil {
		c.Error(err)
		return
	}

	h.replaceSession(c, key)
	state := h.waitForProfile(c.Request.Context(), key)

	response.Success(c, http.StatusOK, "Signed in successfully", gin.H{
		"user":     state.User,
		"redirect": safeRedirect(req.Redirect),
	})
}

// RegisterPage godoc
// @Summary      Registration page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/register [get]
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "Register", gin.H{
		"userTypes": []domain.UserType{domain.UserTypePromoter, domain.UserTypeCompany},
	})
}

// Register godoc
// @Summary      User Registration
// @Description  Create an account. When email confirmation is required no session is started.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	key := uuid.NewString()
	sess, err := h.authUC.SignUp(c.Request.Context(), key, req)
	if err != nil {
		c.Error(err)
		return
	}

	if sess == nil {
		response.Success(c, http.StatusCreated, "Account created. Please check your email to confirm your address.", gin.H{
			"confirmationRequired": true,
			"redirect":             session.LoginPath,
		})
		return
	}

	h.replaceSession(c, key)
	state := h.waitForProfile(c.Request.Context(), key)

	response.Success(c, http.StatusCreated, "Account created successfully", gin.H{
		"user":     state.User,
		"redirect": session.DashboardPath,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Clears the local session first, then revokes it with the auth provider
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if key := middleware.SessionKey(c); key != "" {
		if err := h.manager.SignOut(c.Request.Context(), key); err != nil {
			logger.Log.Warn("Sign-out was not confirmed by the auth provider", "error", err)
		}
		h.manager.Release(key)
	}
	h.setCookie(c, "", -1)

	response.Success(c, http.StatusOK, "Signed out successfully", gin.H{"redirect": session.LoginPath})
}

// replaceSession points the browser at key and forgets the previous key.
func (h *AuthHandler) replaceSession(c *gin.Context, key string) {
	if old := middleware.SessionKey(c); old != "" && old != key {
		h.manager.Release(old)
	}
	h.setCookie(c, key, int(h.cookie.TTL.Seconds()))
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}

// waitForProfile gives the sign-in event a moment to land so the response
// can carry the profile.
func (h *AuthHandler) waitForProfile(ctx context.Context, key string) session.State {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := h.manager.Load(ctx, key); err != nil {
		logger.Log.Warn("Failed to load session after sign-in", "error", err)
	}
	return h.manager.Wait(ctx, key)
}
