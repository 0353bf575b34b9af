package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/sha256" // SHA-256 hashing for stored refresh tokens
    "encoding/hex"  // hex encoding for digests
    "errors"        // sentinel token errors
    "time"          // expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // jti generation for refresh tokens
)

// Token verification failures collapse to two cases so callers can tell a
// client whether refreshing is worth attempting (expired) or a full re-login
// is required (invalid signature, malformed, wrong type).
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// refreshTokenType is the value of the "typ" claim stamped into every
// refresh token.  Access tokens carry no "typ" claim, which is how the two
// kinds are told apart even if the signing secrets were ever configured to
// the same value.
const refreshTokenType = "refresh"

// AccessClaims is the payload of an access token: the user's identity plus
// the standard registered claims (sub, exp, iat).
type AccessClaims struct {
    Email     string `json:"email"`
    Role      string `json:"role"`
    TokenType string `json:"typ,omitempty"`
    jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token.  It deliberately carries
// no email or role: a refresh token proves nothing beyond "this user may
// mint a new access token", and the fresh claims are re-read from the
// credential store at refresh time.
type RefreshClaims struct {
    TokenType string `json:"typ"`
    jwt.RegisteredClaims
}

// TokenIssuer creates and verifies the two token kinds.  Access and refresh
// tokens are signed with different secrets so leaking one does not
// compromise the other.
type TokenIssuer struct {
    accessSecret  []byte
    refreshSecret []byte
    accessTTL     time.Duration
    refreshTTL    time.Duration
}

// NewTokenIssuer builds a TokenIssuer from the configured secrets and
// lifetimes.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
    return &TokenIssuer{
        accessSecret:  []byte(accessSecret),
        refreshSecret: []byte(refreshSecret),
        accessTTL:     accessTTL,
        refreshTTL:    refreshTTL,
    }
}

// IssueAccess signs an HS256 access token embedding the user's ID (subject),
// email and role.  It returns the serialized token and its expiry.
func (i *TokenIssuer) IssueAccess(userID, email, role string) (string, time.Time, error) {
    now := time.Now().UTC()
    exp := now.Add(i.accessTTL)
    claims := AccessClaims{
        Email: email,
        Role:  role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// IssueRefresh signs an HS256 refresh token for the user.  Each token gets a
// random jti so two refresh tokens minted for the same user in the same
// second still hash to distinct store rows.
func (i *TokenIssuer) IssueRefresh(userID string) (string, time.Time, error) {
    now := time.Now().UTC()
    exp := now.Add(i.refreshTTL)
    claims := RefreshClaims{
        TokenType: refreshTokenType,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
            ID:        uuid.NewString(),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// VerifyAccess validates signature and expiry of an access token and returns
// its claims.  A refresh token presented here is rejected even before the
// secret mismatch would catch it: anything carrying the refresh "typ" claim
// is not an access token.
func (i *TokenIssuer) VerifyAccess(raw string) (*AccessClaims, error) {
    claims := &AccessClaims{}
    if err := parse(raw, claims, i.accessSecret); err != nil {
        return nil, err
    }
    if claims.TokenType == refreshTokenType {
        return nil, ErrTokenInvalid
    }
    return claims, nil
}

// VerifyRefresh validates signature and expiry of a refresh token and
// enforces the "typ" claim, so an access token can never be replayed as a
// refresh token.
func (i *TokenIssuer) VerifyRefresh(raw string) (*RefreshClaims, error) {
    claims := &RefreshClaims{}
    if err := parse(raw, claims, i.refreshSecret); err != nil {
        return nil, err
    }
    if claims.TokenType != refreshTokenType {
        return nil, ErrTokenInvalid
    }
    return claims, nil
}

// parse runs the jwt library's validation with the signing method pinned to
// HS256 and maps library errors onto the two sentinel cases.
func parse(raw string, claims jwt.Claims, secret []byte) error {
    tok, err := jwt.ParseWithClaims(raw, claims,
        func(t *jwt.Token) (interface{}, error) { return secret, nil },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
    )
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return ErrTokenExpired
        }
        return ErrTokenInvalid
    }
    if !tok.Valid {
        return ErrTokenInvalid
    }
    return nil
}

// HashToken returns the SHA-256 hash of a signed token as a hex string.
// Only the hash goes into the database, so a leaked refresh_tokens table
// cannot be replayed against the API.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
