package config // package config loads application configuration from environment variables

import (
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "strings"  // strings helps parse duration suffixes
    "time"     // time provides the Duration type for token lifetimes

    "github.com/joho/godotenv"   // godotenv loads a local .env file when present
    "github.com/sirupsen/logrus" // logrus reports configuration errors and halts execution
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for token
// lifetimes, ints for the bcrypt cost.
type Config struct {
    Env              string        // application environment (development/production/test)
    Port             string        // HTTP port to listen on
    CORSOrigin       string        // allowed CORS origin for the dashboard frontend
    DBUser           string        // database username
    DBPass           string        // database password (optional)
    DBHost           string        // database host address
    DBPort           string        // database port number
    DBName           string        // database name
    JWTSecret        string        // secret used to sign access tokens
    JWTExpire        time.Duration // access token time-to-live
    JWTRefreshSecret string        // secret used to sign refresh tokens
    JWTRefreshExpire time.Duration // refresh token time-to-live
    BcryptCost       int           // bcrypt cost for password hashing
    RabbitURL        string        // AMQP broker URL (empty disables event publishing)
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first so local
// development does not require exporting variables by hand.  Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // missing .env is fine; real deployments export vars

    return Config{
        Env:              getenv("NODE_ENV", "development"),
        Port:             getenv("PORT", "5000"),
        CORSOrigin:       getenv("CORS_ORIGIN", "http://localhost:3000"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        JWTSecret:        must("JWT_SECRET"),
        JWTExpire:        expiry("JWT_EXPIRE", 24*time.Hour),
        JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
        JWTRefreshExpire: expiry("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
        BcryptCost:       getenvInt("BCRYPT_COST", 10),
        RabbitURL:        os.Getenv("RABBITMQ_URL"), // empty disables the publisher
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        logrus.Fatalf("missing required env var: %s", key)
    }
    return v
}

// getenv returns the value of an environment variable, falling back to def
// when it is unset or empty.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// getenvInt is like getenv but converts the value to an integer.  Invalid
// values are fatal rather than silently defaulted: a typo in BCRYPT_COST
// must never weaken hashing.
func getenvInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        logrus.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

// expiry parses a token lifetime from the environment.  Values accept Go
// duration syntax ("24h", "15m") plus a "d" day suffix ("7d") since day
// units are the conventional way to express refresh lifetimes.
func expiry(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if strings.HasSuffix(v, "d") {
        days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
        if err != nil || days <= 0 {
            logrus.Fatalf("invalid duration for %s: %q", key, v)
        }
        return time.Duration(days) * 24 * time.Hour
    }
    d, err := time.ParseDuration(v)
    if err != nil || d <= 0 {
        logrus.Fatalf("invalid duration for %s: %q", key, v)
    }
    return d
}
