package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"legal-file-auditor/internal/audit"
	"legal-file-auditor/internal/bootstrap"
	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/classifier"
	"legal-file-auditor/internal/cmsadapter"
	"legal-file-auditor/internal/shared/config"
	"legal-file-auditor/internal/shared/telemetry"
)

type connFlags struct {
	provider  string
	apiURL    string
	apiKey    string
	apiSecret string
	orgID     string
	timeout   time.Duration
}

func (f connFlags) config() cmsadapter.Config {
	return cmsadapter.Config{
		Provider:  cmsadapter.Provider(f.provider),
		APIURL:    f.apiURL,
		APIKey:    f.apiKey,
		APISecret: f.apiSecret,
		OrgID:     f.orgID,
	}
}

func (f connFlags) adapter() (cmsadapter.Adapter, error) {
	cfg := f.config()
	if _, err := cmsadapter.ParseProvider(f.provider); err != nil {
		return nil, err
	}
	if err := cmsadapter.Validate(cfg); err != nil {
		return nil, err
	}
	return cmsadapter.NewFactory(f.timeout, 0).Create(cfg), nil
}

func rootCmd() *cobra.Command {
	var (
		conn     connFlags
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "auditor",
		Short:         "Audit personal-injury case files for missing documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.Init(logLevel, false)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&conn.provider, "provider", "casepeer", "CMS provider id")
	pf.StringVar(&conn.apiURL, "api-url", os.Getenv("CMS_API_URL"), "CMS base URL")
	pf.StringVar(&conn.apiKey, "api-key", os.Getenv("CMS_API_KEY"), "CMS API key or token")
	pf.StringVar(&conn.apiSecret, "api-secret", os.Getenv("CMS_API_SECRET"), "CMS API secret")
	pf.StringVar(&conn.orgID, "org-id", os.Getenv("CMS_ORG_ID"), "CMS organization id")
	pf.DurationVar(&conn.timeout, "timeout", cmsadapter.DefaultRequestTimeout, "Per-request timeout")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		providersCmd(),
		testConnectionCmd(&conn),
		casesCmd(&conn),
		auditCmd(&conn),
		classifyCmd(),
		scanCmd(),
	)
	return cmd
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range cmsadapter.Providers() {
				fmt.Fprintf(out, "%-16s %s\n", p.ID, p.Name)
			}
			return nil
		},
	}
}

func testConnectionCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check credentials against the provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cmsadapter.Test(cmd.Context(), cmsadapter.NewFactory(conn.timeout, 0), conn.config())
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Message)
			}
			return nil
		},
	}
}

func casesCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List cases from the provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := conn.adapter()
			if err != nil {
				return err
			}
			list, err := listCases(cmd.Context(), a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", c.ID, c.CaseNumber, c.ClientName, c.CurrentPhase)
			}
			return nil
		},
	}
}

func auditCmd(conn *connFlags) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "audit <caseId>",
		Short: "Audit one case and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := conn.adapter()
			if err != nil {
				return err
			}
			report, err := auditCase(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if full {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeJSON(cmd.OutOrStdout(), audit.Summary(report))
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print the full report instead of the summary")
	return cmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify a local PDF or DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := classifier.NewPatternClassifier().Classify(cmd.Context(), classifier.Input{
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

// scanCmd runs a stored firm's scan with the service configuration from the environment.
func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <firmId>",
		Short: "Run a full scan for a stored firm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Build(config.Load())
			if err != nil {
				return err
			}
			defer app.Close()
			res, err := app.Scans.ScanFirm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func listCases(ctx context.Context, a cmsadapter.Adapter) ([]cases.Case, error) {
	if lister, ok := a.(cmsadapter.CaseLister); ok {
		return lister.ListCases(ctx)
	}
	return a.GetCases(ctx), nil
}

func auditCase(ctx context.Context, a cmsadapter.Adapter, caseID string) (audit.Report, error) {
	c, err := a.GetCase(ctx, caseID)
	if err != nil {
		return audit.Report{}, err
	}
	if c == nil {
		return audit.Report{}, fmt.Errorf("case %s not found", caseID)
	}
	if docs := a.GetDocuments(ctx, caseID); len(docs) > 0 {
		c.Documents = docs
	}
	c.Documents = classifier.NewPatternClassifier().LabelUnclassified(c.Documents)
	return audit.NewEngine(audit.DefaultPolicy()).GenerateReport(*c), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
