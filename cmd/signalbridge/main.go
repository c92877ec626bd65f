package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	signalbridge "github.com/nugsoft/signalbridge-go"
	"github.com/nugsoft/signalbridge-go/segments"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	token   string
	baseURL string
	debug   bool
	timeout time.Duration
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError logs err with its gateway kind and status when it has one.
func reportError(err error) {
	var apiErr signalbridge.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Err(err).
			Str("kind", apiErr.Kind().String()).
			Int("status_code", apiErr.StatusCode()).
			Msg("command failed")
		return
	}
	log.Error().Err(err).Msg("command failed")
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "signalbridge",
		Short:         "Send SMS and inspect your SignalBridge account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if opts.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			// A missing .env is fine; the environment may already be set.
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Warn().Err(err).Msg("failed to load .env")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "API token (default $SIGNALBRIDGE_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Gateway API root (default $SIGNALBRIDGE_BASE_URL or the hosted gateway)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Log requests and responses")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default $SIGNALBRIDGE_TIMEOUT or 30s)")

	rootCmd.AddCommand(newSendCmd(opts))
	rootCmd.AddCommand(newSendBatchCmd(opts))
	rootCmd.AddCommand(newBalanceCmd(opts))
	rootCmd.AddCommand(newBalanceSummaryCmd(opts))
	rootCmd.AddCommand(newTransactionsCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newRevokeTokenCmd(opts))
	rootCmd.AddCommand(newEstimateCmd())

	return rootCmd
}

// newClient builds a client from the environment with flag overrides.
func newClient(opts *rootOptions) (*signalbridge.Client, error) {
	cfg, err := signalbridge.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.token != "" {
		cfg.Token = opts.token
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.debug {
		cfg.Debug = true
	}
	log.Debug().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.Timeout).
		Msg("creating client")
	return signalbridge.NewFromConfig(cfg, signalbridge.WithLogger(log.Logger))
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	var to, message, senderID, schedule string
	var isTest bool
	var metadata map[string]string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a single SMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			sendOpts := signalbridge.SendOptions{IsTest: isTest}
			if cmd.Flags().Changed("sender-id") {
				sendOpts.SenderID = signalbridge.String(senderID)
			}
			if schedule != "" {
				at, err := time.Parse(time.RFC3339, schedule)
				if err != nil {
					return fmt.Errorf("invalid --schedule: %w", err)
				}
				sendOpts.ScheduledAt = &at
			}
			if len(metadata) > 0 {
				sendOpts.Metadata = make(map[string]any, len(metadata))
				for k, v := range metadata {
					sendOpts.Metadata[k] = v
				}
			}

			c, err := newClient(opts)
			if err != nil {
				return err
			}
			start := time.Now()
			res, err := c.SendSMS(cmd.Context(), to, message, sendOpts)
			if err != nil {
				return err
			}
			log.Debug().
				Str("recipient", to).
				Str("message_id", string(res.Data.MessageID)).
				Int("segments", int(res.Data.Segments)).
				Dur("elapsed", time.Since(start)).
				Msg("send completed")
			return printJSON(cmd.OutOrStdout(), res.Raw, res)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient phone number (required)")
	cmd.Flags().StringVar(&message, "message", "", "Message body (required)")
	cmd.Flags().StringVar(&senderID, "sender-id", "", "Sender ID")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Delivery time, RFC 3339")
	cmd.Flags().BoolVar(&isTest, "test", false, "Test send; nothing is delivered or billed")
	cmd.Flags().StringToStringVar(&metadata, "metadata", nil, "Metadata as key=value pairs")

	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newSendBatchCmd(opts *rootOptions) *cobra.Command {
	var file, senderID string
	var isTest bool

	cmd := &cobra.Command{
		Use:   "send-batch",
		Short: "Send messages listed in a JSON file",
		Long: `Send messages listed in a JSON file. The file holds an array of
{"recipient": "...", "message": "...", "metadata": {...}} objects; "-" reads stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := readBatch(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			batchOpts := signalbridge.BatchOptions{IsTest: isTest}
			if cmd.Flags().Changed("sender-id") {
				batchOpts.SenderID = signalbridge.String(senderID)
			}

			c, err := newClient(opts)
			if err != nil {
				return err
			}
			res, err := c.SendBatch(cmd.Context(), messages, batchOpts)
			if err != nil {
				return err
			}
			log.Debug().
				Int("total", int(res.Data.Total)).
				Int("successful", int(res.Data.Successful)).
				Int("failed", int(res.Data.Failed)).
				Msg("batch completed")
			return printJSON(cmd.OutOrStdout(), res.Raw, res)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with the messages (required)")
	cmd.Flags().StringVar(&senderID, "sender-id", "", "Sender ID for the whole batch")
	cmd.Flags().BoolVar(&isTest, "test", false, "Test send; nothing is delivered or billed")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readBatch(stdin io.Reader, path string) ([]signalbridge.BatchMessage, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var messages []signalbridge.BatchMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return messages, nil
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			bal, err := c.GetBalance(cmd.Context(), currency)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bal.Raw, bal)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Currency code (default UGX)")

	return cmd
}

func newBalanceSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance-summary",
		Short: "Show balances with recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd, opts, (*signalbridge.Client).GetBalanceSummary)
		},
	}
}

func newTransactionsCmd(opts *rootOptions) *cobra.Command {
	var filter signalbridge.TransactionFilter

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List balance transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			page, err := c.GetTransactions(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page.Raw, page)
		},
	}

	cmd.Flags().StringVar(&filter.Type, "type", "", "Transaction type, e.g. credit or debit")
	cmd.Flags().StringVar(&filter.StartDate, "start-date", "", "Earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.EndDate, "end-date", "", "Latest date, YYYY-MM-DD")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&filter.PerPage, "per-page", 0, "Page size")

	return cmd
}

func newTokensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "List API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd, opts, (*signalbridge.Client).ListTokens)
		},
	}
}

func newRevokeTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-token",
		Short: "Revoke the token used by this command",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd, opts, (*signalbridge.Client).RevokeCurrentToken)
		},
	}
}

func runDocument(cmd *cobra.Command, opts *rootOptions, fetch func(*signalbridge.Client, context.Context) (*signalbridge.Document, error)) error {
	c, err := newClient(opts)
	if err != nil {
		return err
	}
	doc, err := fetch(c, cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), doc.Raw, doc.Value)
}

// estimate is the output of the estimate command.
type estimate struct {
	Characters    int              `json:"characters"`
	Encoding      string           `json:"encoding"`
	Segments      int              `json:"segments"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost,omitempty"`
}

func newEstimateCmd() *cobra.Command {
	var price string

	cmd := &cobra.Command{
		Use:   "estimate <message>",
		Short: "Estimate segments and cost of a message without sending it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := args[0]
			out := estimate{
				Characters: segments.Length(body),
				Encoding:   segments.Classify(body).String(),
				Segments:   segments.Count(body),
			}
			if price != "" {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid --price: %w", err)
				}
				if p.IsNegative() {
					return fmt.Errorf("invalid --price: %s is negative", price)
				}
				cost := segments.EstimateCost(body, p)
				out.EstimatedCost = &cost
			}
			return printJSON(cmd.OutOrStdout(), nil, out)
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "Price per segment")

	return cmd
}

// printJSON writes raw indented when the gateway sent a body, else v.
func printJSON(w io.Writer, raw json.RawMessage, v any) error {
	var buf bytes.Buffer
	if len(raw) > 0 {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("format response: %w", err)
		}
	} else {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("format response: %w", err)
		}
		buf.Write(b)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
