package config // package config loads application configuration from environment variables

import (
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time" // time parses duration values such as the cache staleness window
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The gateway owns no database; everything it
// serves is fetched from the upstream API, so the configuration is mostly
// addresses of external collaborators.
type Config struct {
    Env        string        // application environment (e.g. "dev", "prod")
    Port       string        // HTTP port to listen on
    APIBaseURL string        // root URL of the upstream restaurant API
    PushURL    string        // WebSocket URL of the upstream order-push endpoint (optional)
    AMQPURL    string        // AMQP broker URL for the alternative event ingress (optional)
    CacheTTL   time.Duration // staleness window for cached resources
    CacheKey   string        // Redis key under which the cache snapshot is persisted
    LoginPath  string        // route unauthenticated visitors are redirected to
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional transports
// (push socket, broker) are simply disabled when their URL is unset.
func Load() Config {
    return Config{
        Env:        must("APP_ENV"),                     // environment (dev/test/prod)
        Port:       must("APP_PORT"),                    // port to bind the HTTP server
        APIBaseURL: must("API_BASE_URL"),                // upstream API host, e.g. http://api:4000
        PushURL:    os.Getenv("PUSH_URL"),               // upstream push endpoint (empty disables it)
        AMQPURL:    os.Getenv("RABBITMQ_URL"),           // broker ingress (empty disables it)
        CacheTTL:   mustDur("CACHE_TTL", 5*time.Minute), // staleness window, default five minutes
        CacheKey:   getenv("CACHE_STORAGE_KEY", "dashboard:cache:v1"), // snapshot key in Redis
        LoginPath:  getenv("LOGIN_PATH", "/login"),      // where the session gate redirects to
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// getenv returns the value of an environment variable or a default when the
// variable is unset or empty.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// mustDur parses a duration from the environment, falling back to the given
// default when the variable is unset.  An unparsable value is fatal so that
// a typo cannot silently shrink the staleness window to zero.
func mustDur(key string, def time.Duration) time.Duration {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    d, err := time.ParseDuration(s)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, s)
    }
    return d
}
