// Package ctl implements datawhisperctl, a thin client for the query API.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/datawhisperer/datawhisperer/internal/query"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

// usageError marks failures caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

type cmdControl struct {
	opts Options

	flagBaseURL string
	flagAPIKey  string
	flagTimeout time.Duration
}

// Run executes the CLI and returns the process exit code: 0 on success, 1 on
// request failures and 2 on usage errors.
func Run(ctx context.Context, args []string, defaults Options) int {
	if defaults.Stdout == nil {
		defaults.Stdout = io.Discard
	}
	if defaults.Stderr == nil {
		defaults.Stderr = io.Discard
	}

	root := NewRootCommand(defaults)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_, _ = fmt.Fprintln(defaults.Stderr, "Error:", err)

	var usage usageError
	if errors.As(err, &usage) || strings.HasPrefix(err.Error(), "unknown command") || strings.HasPrefix(err.Error(), "unknown flag") {
		return 2
	}
	return 1
}

func NewRootCommand(defaults Options) *cobra.Command {
	c := &cmdControl{opts: defaults}

	app := &cobra.Command{
		Use:               "datawhisperctl",
		Short:             "Ask the Data Whisperer API questions about customers",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	app.SetOut(defaults.Stdout)
	app.SetErr(defaults.Stderr)

	app.PersistentFlags().StringVar(&c.flagBaseURL, "base-url", firstNonEmpty(defaults.BaseURL, "http://127.0.0.1:8000"), "Data Whisperer API base URL")
	app.PersistentFlags().StringVar(&c.flagAPIKey, "api-key", defaults.APIKey, "API key sent as X-API-Key")
	app.PersistentFlags().DurationVar(&c.flagTimeout, "timeout", durationOr(defaults.Timeout, 60*time.Second), "HTTP timeout (e.g. 30s)")

	app.AddCommand(c.probeCommand("health", "/v1/health", "Check that the API process is up"))
	app.AddCommand(c.probeCommand("ready", "/v1/ready", "Check that the API can reach its database"))
	app.AddCommand((&cmdAsk{common: c}).command())
	return app
}

func (c *cmdControl) probeCommand(use, path, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageError{fmt.Errorf("%s takes no arguments", use)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, body, err := c.do(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			if code >= 400 {
				return httpError(code, body)
			}
			if pretty, ok := prettyJSON(body); ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), pretty)
				return nil
			}
			if len(body) > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			}
			return nil
		},
	}
}

type cmdAsk struct {
	common   *cmdControl
	flagJSON bool
}

func (a *cmdAsk) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Translate a question to SQL and show the matching customers",
		Args: func(_ *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return usageError{errors.New("ask requires a question")}
			}
			return nil
		},
		RunE: a.run,
	}
	cmd.Flags().BoolVar(&a.flagJSON, "json", false, "Print the raw JSON response")
	return cmd
}

type askResponse struct {
	SQLQuery string      `json:"sql_query"`
	Results  []query.Row `json:"results"`
}

func (a *cmdAsk) run(cmd *cobra.Command, args []string) error {
	payload, err := json.Marshal(map[string]string{"query": strings.Join(args, " ")})
	if err != nil {
		return err
	}
	code, body, err := a.common.do(cmd.Context(), http.MethodPost, "/query", payload)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if code >= 400 {
		return httpError(code, body)
	}

	out := cmd.OutOrStdout()
	if a.flagJSON {
		if pretty, ok := prettyJSON(body); ok {
			_, _ = fmt.Fprintln(out, pretty)
			return nil
		}
		_, _ = fmt.Fprintln(out, string(body))
		return nil
	}

	var resp askResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	_, _ = fmt.Fprintf(out, "SQL: %s\n", resp.SQLQuery)
	writeResults(out, resp.Results)
	return nil
}

func writeResults(w io.Writer, rows []query.Row) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(rows[0].Columns)
	for _, row := range rows {
		cells := make([]string, len(rows[0].Columns))
		for i, column := range rows[0].Columns {
			value, ok := row.Get(column)
			cells[i] = formatCell(value, ok)
		}
		table.Append(cells)
	}
	table.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func formatCell(value any, ok bool) string {
	if !ok || value == nil {
		return "NULL"
	}
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}

func (c *cmdControl) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	client := c.opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: c.flagTimeout}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.flagBaseURL, "/")+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := strings.TrimSpace(c.flagAPIKey); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

// httpError prefers the detail field of an error envelope over the raw body.
func httpError(code int, body []byte) error {
	var envelope struct {
		ErrorCode string `json:"error_code"`
		Detail    string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		if envelope.ErrorCode != "" {
			return fmt.Errorf("http %d %s: %s", code, envelope.ErrorCode, envelope.Detail)
		}
		return fmt.Errorf("http %d: %s", code, envelope.Detail)
	}
	return fmt.Errorf("http %d: %s", code, strings.TrimSpace(string(body)))
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
