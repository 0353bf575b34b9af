package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "net/mail"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/projectnexus/nexus-backend/internal/config"
    "github.com/projectnexus/nexus-backend/internal/middleware"
    "github.com/projectnexus/nexus-backend/internal/model"
    "github.com/projectnexus/nexus-backend/internal/queue"
    "github.com/projectnexus/nexus-backend/internal/repository"
    "github.com/projectnexus/nexus-backend/internal/utils"
)

// dbTimeout bounds every credential-store call made by a handler.
const dbTimeout = 5 * time.Second

// UserStore is the slice of the user repository the auth handlers need.
type UserStore interface {
    Create(ctx context.Context, u *model.User) error
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByUsername(ctx context.Context, username string) (model.User, error)
    GetByID(ctx context.Context, id string) (model.User, error)
}

// TokenStore persists refresh-token state for rotation and revocation.
type TokenStore interface {
    Store(ctx context.Context, userID, tokenHash string, exp time.Time) error
    Validate(ctx context.Context, tokenHash string) (string, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
    Issuer *utils.TokenIssuer
    Events *queue.Publisher // nil-safe; events are fire-and-forget
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore, issuer *utils.TokenIssuer, events *queue.Publisher) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Issuer: issuer, Events: events}
}

// ----- DTOs -----

type registerReq struct {
    Username  string `json:"username"`
    Email     string `json:"email"`
    Password  string `json:"password"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
}
type loginReq struct {
    Email    string `json:"email"`
    Username string `json:"username"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refreshToken"`
}

type authResp struct {
    Success      bool       `json:"success"`
    User         model.User `json:"user"`
    AccessToken  string     `json:"accessToken"`
    RefreshToken string     `json:"refreshToken"`
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
}

func internalError(c echo.Context, msg string) error {
    return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": msg})
}

// Register: validate, hash, persist, return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    req.Username = strings.TrimSpace(req.Username)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if msg := validateRegistration(req); msg != "" {
        return badRequest(c, msg)
    }

    // Hashing happens here, before the write reaches the repository: the
    // store only ever sees the digest.
    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return internalError(c, "create user failed")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u := model.User{
        Username:     req.Username,
        Email:        req.Email,
        PasswordHash: hash,
        FirstName:    strings.TrimSpace(req.FirstName),
        LastName:     strings.TrimSpace(req.LastName),
        Role:         model.RoleUser,
        IsActive:     true,
    }
    if err := h.Users.Create(ctx, &u); err != nil {
        switch {
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "email already exists"})
        case errors.Is(err, repository.ErrUsernameExists):
            return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "username already exists"})
        }
        return internalError(c, "create user failed")
    }

    access, refresh, err := h.issueTokenPair(ctx, u)
    if err != nil {
        return internalError(c, "issue tokens failed")
    }

    h.publish(queue.UserRegisteredQueue, queue.UserRegisteredEvent{
        UserID:       u.ID,
        Username:     u.Username,
        Email:        u.Email,
        RegisteredAt: time.Now().UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, authResp{
        Success:      true,
        User:         u,
        AccessToken:  access,
        RefreshToken: refresh,
    })
}

// Login: verify credentials and return a new token pair.  Unknown identifier
// and wrong password produce byte-identical 401 bodies so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Username = strings.TrimSpace(req.Username)
    if (req.Email == "" && req.Username == "") || req.Password == "" {
        return badRequest(c, "email/username and password required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    var (
        u   model.User
        err error
    )
    if req.Email != "" {
        u, err = h.Users.GetByEmail(ctx, req.Email)
    } else {
        u, err = h.Users.GetByUsername(ctx, req.Username)
    }
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return invalidCredentials(c)
        }
        return internalError(c, "query failed")
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return invalidCredentials(c)
    }

    access, refresh, err := h.issueTokenPair(ctx, u)
    if err != nil {
        return internalError(c, "issue tokens failed")
    }

    h.publish(queue.UserLoggedInQueue, queue.UserLoggedInEvent{
        UserID:   u.ID,
        Email:    u.Email,
        LoggedAt: time.Now().UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusOK, authResp{
        Success:      true,
        User:         u,
        AccessToken:  access,
        RefreshToken: refresh,
    })
}

// Profile returns the authenticated user's record.  The JWT middleware has
// already validated the token; the store lookup can still miss if the
// account was removed after the token was issued.
func (h *AuthHandler) Profile(c echo.Context) error {
    userID, _ := c.Get(middleware.CtxUserID).(string)

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
        }
        return internalError(c, "query failed")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// Logout revokes every stored refresh token of the authenticated user.  The
// access token itself stays valid until expiry; it is short-lived and there
// is no denylist for access tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
    userID, _ := c.Get(middleware.CtxUserID).(string)

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
        return internalError(c, "logout failed")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

// Refresh: verify the refresh token (signature, expiry, typ claim and store
// state), revoke it, and hand back a rotated pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return badRequest(c, "refreshToken required")
    }
    raw := strings.TrimSpace(req.RefreshToken)

    claims, err := h.Issuer.VerifyRefresh(raw)
    if err != nil {
        code := middleware.CodeTokenInvalid
        if errors.Is(err, utils.ErrTokenExpired) {
            code = middleware.CodeTokenExpired
        }
        return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid refresh token", "code": code})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    // The signature alone is not enough: the token must still be live in
    // the store.  Rotation revoked tokens and logout both end up here.
    hash := utils.HashToken(raw)
    userID, err := h.Tokens.Validate(ctx, hash)
    if err != nil || userID != claims.Subject {
        return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid refresh token", "code": middleware.CodeTokenInvalid})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid refresh token", "code": middleware.CodeTokenInvalid})
        }
        return internalError(c, "load user failed")
    }

    access, refresh, err := h.issueTokenPair(ctx, u)
    if err != nil {
        return internalError(c, "issue tokens failed")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":      true,
        "accessToken":  access,
        "refreshToken": refresh,
    })
}

// issueTokenPair signs an access and a refresh token for the user and
// persists the refresh token's hash.
func (h *AuthHandler) issueTokenPair(ctx context.Context, u model.User) (access, refresh string, err error) {
    access, _, err = h.Issuer.IssueAccess(u.ID, u.Email, u.Role)
    if err != nil {
        return "", "", err
    }
    refresh, exp, err := h.Issuer.IssueRefresh(u.ID)
    if err != nil {
        return "", "", err
    }
    if err := h.Tokens.Store(ctx, u.ID, utils.HashToken(refresh), exp); err != nil {
        return "", "", err
    }
    return access, refresh, nil
}

// publish sends the event on a detached context so a slow broker cannot
// hold the response, and never lets a publish failure surface.
func (h *AuthHandler) publish(queueName string, event any) {
    if h.Events == nil {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
        defer cancel()
        if err := h.Events.Publish(ctx, queueName, event); err != nil {
            logrus.WithField("queue", queueName).Debug("auth event dropped")
        }
    }()
}

func invalidCredentials(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
}

// validateRegistration applies the same field rules the users table implies:
// username 3-50 chars, password 6-100 chars, parseable email address.
func validateRegistration(req registerReq) string {
    if req.Username == "" || req.Email == "" || req.Password == "" {
        return "username, email and password required"
    }
    if len(req.Username) < 3 || len(req.Username) > 50 {
        return "username must be 3-50 characters"
    }
    if len(req.Password) < 6 || len(req.Password) > 100 {
        return "password must be 6-100 characters"
    }
    if _, err := mail.ParseAddress(req.Email); err != nil {
        return "invalid email address"
    }
    return ""
}
