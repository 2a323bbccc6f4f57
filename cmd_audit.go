package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gbp-auditor/models"
	"gbp-auditor/services"
	"gbp-auditor/utils"
)

var (
	formFlags     models.DraftForm
	auditRetries  int
	auditEmail    bool
	auditJSON     bool
	retryBaseWait = 2 * time.Second
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run an audit for the stored draft, overridden by any flags given",
	Long: `Runs one audit. Fields not given as flags are taken from the stored draft,
so a form can be filled in over several 'draft set' calls and submitted later.

On success the submission is appended to the history and the stored draft is
cleared.

Example:
  gbp-auditor audit --name "Joe's Pizza" --location "New York, NY" \
    --email joe@example.com --phone "(212) 555-0100" --email-summary`,
	RunE: runAudit,
}

func init() {
	bindFormFlags(auditCmd)
	auditCmd.Flags().IntVar(&auditRetries, "retries", 0, "Attempts before giving up (default MAX_RETRIES)")
	auditCmd.Flags().BoolVar(&auditEmail, "email-summary", false, "Also generate a plain-text email summary")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the result as JSON instead of a report")
}

func bindFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&formFlags.BusinessName, "name", "", "Business name")
	cmd.Flags().StringVar(&formFlags.Location, "location", "", "Business location, e.g. city and state")
	cmd.Flags().StringVar(&formFlags.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&formFlags.PhoneNumber, "phone", "", "Business phone number")
}

// mergeForm overlays the non-empty flag values onto base.
func mergeForm(base, flags models.DraftForm) models.DraftForm {
	if flags.BusinessName != "" {
		base.BusinessName = flags.BusinessName
	}
	if flags.Location != "" {
		base.Location = flags.Location
	}
	if flags.Email != "" {
		base.Email = flags.Email
	}
	if flags.PhoneNumber != "" {
		base.PhoneNumber = flags.PhoneNumber
	}
	return base
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	store, drafts, history, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	auditor := services.NewAuditor(gen, logger, services.AuditorOptions{
		Temperature: cfg.Temperature,
		Minimums: models.Minimums{
			Breakdown:       cfg.MinBreakdown,
			Recommendations: cfg.MinRecommendations,
		},
	})
	session := services.NewSession(auditor, services.NewSummarizer(gen, logger), drafts, history, logger, nil)

	if err := session.Restore(); err != nil {
		return err
	}
	if err := session.UpdateDraft(mergeForm(session.Form(), formFlags)); err != nil {
		return err
	}

	attempts := auditRetries
	if attempts <= 0 {
		attempts = cfg.MaxRetries
	}
	retry := &utils.RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   retryBaseWait,
		Logger:      logger,
		Retryable: func(err error) bool {
			return !errors.Is(err, models.ErrValidation) && !errors.Is(err, services.ErrBusy)
		},
	}

	var result *models.AuditResult
	err = retry.Do(ctx, "audit", func(ctx context.Context) error {
		if cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()
		}
		r, err := session.Submit(ctx)
		if r == nil {
			return err
		}
		if err != nil {
			logger.Warn("[audit] %v", err)
		}
		result = r
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if auditJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprint(out, services.RenderReport(result, session.Form().BusinessName))
	}

	if !auditEmail {
		return nil
	}
	summary, err := session.EmailSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Subject: %s\n\n%s\n", summary.Subject, summary.Body)
	return nil
}
