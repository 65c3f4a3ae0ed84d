package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/riskibarqy/pawmatch/internal/infrastructure/profileapi"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/platform/resilience"
	"github.com/spf13/cobra"
)

const (
	defaultAPIURL = "http://localhost:8080"
	outputTable   = "table"
	outputJSON    = "json"
)

type rootOptions struct {
	apiURL  string
	token   string
	timeout time.Duration
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "Show and edit your pawmatch profile",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.output {
			case outputTable, outputJSON:
				return nil
			default:
				return errUnsupportedOutput(opts.output)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", envOr("PAWMATCH_API_URL", defaultAPIURL), "pawmatch API base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("PAWMATCH_TOKEN"), "bearer token for the API")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per request timeout")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(newShowCmd(opts), newEditCmd(opts))
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logging.Logger {
	level := logging.LevelWarn
	if o.verbose {
		level = logging.LevelDebug
	}
	return logging.NewJSONWriter(cmd.ErrOrStderr(), level)
}

func (o *rootOptions) client(logger *logging.Logger) *profileapi.Client {
	return profileapi.NewClient(
		&http.Client{Timeout: o.timeout},
		o.apiURL,
		o.token,
		resilience.CircuitBreakerConfig{},
		logger,
	)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
