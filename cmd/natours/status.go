// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const defaultStatusAddr = "127.0.0.1:9100"

// CheckStatus is the outcome of one health check.
type CheckStatus struct {
	Check  string `json:"check"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

type statusConfig struct {
	addr       string
	timeout    time.Duration
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running instance",
		Long:  `Query the liveness and readiness checks of a running natours serve process.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultStatusAddr, "metrics/health address of the instance")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 2*time.Second, "per-check timeout")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	client := &http.Client{Timeout: cfg.timeout}
	base := cfg.addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	checks := []CheckStatus{
		queryCheck(cmd.Context(), client, base, "liveness"),
		queryCheck(cmd.Context(), client, base, "readiness"),
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Print(formatCheckTable(checks))
	}

	for _, p := range checks {
		if !p.OK {
			return oops.Code("NOT_READY").With("check", p.Check).Errorf("instance at %s is not ready", cfg.addr)
		}
	}
	return nil
}

func queryCheck(ctx context.Context, client *http.Client, base, check string) CheckStatus {
	status := CheckStatus{Check: check}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/healthz/"+check, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	resp, err := client.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		status.Error = fmt.Sprintf("failed to read response: %v", err)
		return status
	}
	status.Status = resp.StatusCode
	status.Body = strings.TrimSpace(string(body))
	status.OK = resp.StatusCode == http.StatusOK
	return status
}

func formatCheckTable(checks []CheckStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "CHECK\tSTATE\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t-----\t------")
	for _, p := range checks {
		state := "ok"
		detail := p.Body
		if !p.OK {
			state = "failing"
			if p.Error != "" {
				detail = p.Error
			} else {
				detail = fmt.Sprintf("HTTP %d %s", p.Status, p.Body)
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Check, state, detail)
	}

	_ = w.Flush()
	return sb.String()
}
