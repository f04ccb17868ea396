package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/caido/cookie-auth-proxy/pkg/cookies"
	"github.com/caido/cookie-auth-proxy/pkg/extraction"
	"github.com/caido/cookie-auth-proxy/pkg/identity"
	"github.com/caido/cookie-auth-proxy/pkg/logging"
	"github.com/caido/cookie-auth-proxy/pkg/session"
	"github.com/caido/cookie-auth-proxy/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// loadCookieConfig reads the COOKIE_* environment and applies the command
// line overrides on top.
func loadCookieConfig(c *cli.Context) (cookies.Config, error) {
	cfg, err := cookies.LoadConfig()
	if err != nil {
		return cookies.Config{}, err
	}

	if secret := c.String("secret"); secret != "" {
		cfg.Secret = []byte(secret)
	}
	if rotated := c.StringSlice("rotatedSecrets"); len(rotated) > 0 {
		cfg.RotatedSecrets = nil
		for _, s := range rotated {
			cfg.RotatedSecrets = append(cfg.RotatedSecrets, []byte(s))
		}
	}
	if siteRoot := c.String("siteRoot"); siteRoot != "" {
		cfg.SiteRoot = siteRoot
	}
	return cfg, nil
}

func createRequestsHandler(c *cli.Context, logger *slog.Logger) (*RequestsHandler, error) {
	cookieConfig, err := loadCookieConfig(c)
	if err != nil {
		return nil, err
	}
	if !cookieConfig.HasSecret() {
		return nil, errors.New("a cookie secret is required")
	}

	cookieName := c.String("cookie")
	if cookieName == "" {
		return nil, errors.New("a session cookie name is required")
	}
	logger.Info("session cookie", "name", cookieName, "site_root", cookieConfig.SiteRoot)

	// Prepare token extractors
	headerExtractor := extraction.NewHeaderExtractor(c.String("header"), c.String("prefix"))

	extractors := []extraction.Extractor{extraction.NewCookieExtractor(cookieConfig, cookieName)}
	if c.Bool("headerAuth") {
		extractors = append(extractors, headerExtractor)
		logger.Info("header authentication enabled", "header", c.String("header"), "prefix", c.String("prefix"))
	}
	tokenExtractor := extraction.NewTokenExtractor(extractors...)

	// Prepare token validator
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	keys, err := validation.LoadKeys(ctx, c.String("jwk"))
	if err != nil {
		return nil, err
	}

	algorithms := c.StringSlice("algorithms")
	if len(algorithms) == 0 {
		return nil, errors.New("a least one JWT algorithm is required")
	}

	audience := c.String("audience")
	if audience == "" {
		return nil, errors.New("a JWT audience is required")
	}

	issuer := c.String("issuer")
	if issuer == "" {
		return nil, errors.New("a JWT issuer is required")
	}

	logger.Info("JWT validation", "algorithms", algorithms, "audience", audience, "issuer", issuer)

	tokenValidator := validation.NewTokenValidator(keys, algorithms, audience, issuer)

	// Prepare identity provider
	claimName := c.String("claim")
	if claimName == "" {
		return nil, errors.New("a JWT Grafana claim is required")
	}
	logger.Info("JWT identity claim", "claim", claimName)

	// Prepare requests handler
	rawURL := c.String("url")
	if rawURL == "" {
		return nil, errors.New("an URL is required")
	}

	servedUrl, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	logger.Info("proxy serving", "url", servedUrl.String())

	return &RequestsHandler{
		ServedUrl:        servedUrl,
		CookieConfig:     cookieConfig,
		TokenExtractor:   tokenExtractor,
		TokenValidator:   tokenValidator,
		IdentityProvider: identity.NewTokenProvider(claimName),
		Sessions:         session.NewManager(cookieConfig, cookieName, headerExtractor, tokenValidator, logger),
		Logger:           logger,
	}, nil
}

func launchProxy(c *cli.Context) error {
	logger, err := logging.New(c.String("logFormat"), c.String("logLevel"), os.Stderr)
	if err != nil {
		return err
	}

	requestsHandler, err := createRequestsHandler(c, logger)
	if err != nil {
		return err
	}

	port := c.Int("port")
	if port == 0 {
		return errors.New("a port is required")
	}

	logger.Info("proxy running", "port", port)

	server := http.Server{Addr: ":" + strconv.Itoa(port), Handler: requestsHandler.Router()}
	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-c.Context.Done():
		logger.Info("shutting down")
		return server.Shutdown(context.Background())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "cookie-auth-proxy",
		Usage:  "authenticate requests with a JWT kept in a signed cookie",
		Action: launchProxy,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "port",
				Required: true,
				Usage:    "port used by the proxy",
				EnvVars:  []string{"PROXY_PORT"},
			},
			&cli.StringFlag{
				Name:     "url",
				Required: true,
				Usage:    "URL served by the proxy",
				EnvVars:  []string{"PROXY_SERVED_URL"},
			},
			&cli.StringFlag{
				Name:     "jwk",
				Required: true,
				Usage:    "URL to fetch the JWK from",
				EnvVars:  []string{"PROXY_JWK_FETCH_URL"},
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "secret used to sign session cookies (overrides COOKIE_SECRET)",
			},
			&cli.StringSliceFlag{
				Name:  "rotatedSecrets",
				Usage: "previous cookie secrets still accepted when reading (overrides COOKIE_ROTATED_SECRETS)",
			},
			&cli.StringFlag{
				Name:  "siteRoot",
				Usage: "default path of session cookies (overrides COOKIE_SITE_ROOT)",
			},
			&cli.StringFlag{
				Name:    "cookie",
				Value:   "session",
				Usage:   "signed cookie holding the token",
				EnvVars: []string{"PROXY_COOKIE"},
			},
			&cli.BoolFlag{
				Name:    "headerAuth",
				Value:   false,
				Usage:   "also accept tokens from a header on proxied requests",
				EnvVars: []string{"PROXY_HEADER_AUTH"},
			},
			&cli.StringFlag{
				Name:    "header",
				Value:   "Authorization",
				Usage:   "header to extract token from",
				EnvVars: []string{"PROXY_HEADER"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Value:   "Bearer",
				Usage:   "header prefix to expect",
				EnvVars: []string{"PROXY_HEADER_PREFIX"},
			},
			&cli.StringSliceFlag{
				Name:    "algorithms",
				Usage:   "JWT algorithms to accept",
				Value:   cli.NewStringSlice("RS256"),
				EnvVars: []string{"PROXY_JWT_ALGORITHMS"},
			},
			&cli.StringFlag{
				Name:     "audience",
				Required: true,
				Usage:    "JWT audience to accept",
				EnvVars:  []string{"PROXY_JWT_AUDIENCE"},
			},
			&cli.StringFlag{
				Name:     "issuer",
				Required: true,
				Usage:    "JWT issuer to accept",
				EnvVars:  []string{"PROXY_JWT_ISSUER"},
			},
			&cli.StringFlag{
				Name:     "claim",
				Required: true,
				Usage:    "JWT claim to use for Grafana authentication",
				EnvVars:  []string{"PROXY_JWT_GRAFANA_CLAIM"},
			},
			&cli.StringFlag{
				Name:    "logFormat",
				Value:   logging.FormatText,
				Usage:   "log format (text or json)",
				EnvVars: []string{"PROXY_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "logLevel",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"PROXY_LOG_LEVEL"},
			},
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Unable to load a .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
