package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/audit"
	"github.com/fwc-ai/hr-agent/internal/docstore"
	"github.com/fwc-ai/hr-agent/internal/logger"
	"github.com/fwc-ai/hr-agent/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen [resume files]",
	Short: "Rank resume files against a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScreen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().String("jd-file", "", "job description file (required)")
	screenCmd.Flags().Float64("cutoff", 0, "similarity cutoff for shortlisting (default 0.5)")
	screenCmd.Flags().Bool("send-mails", false, "notify shortlisted candidates by email")
	screenCmd.Flags().String("report", "", "write the ranked results to an xlsx file")
	screenCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before sending emails")

	screenCmd.MarkFlagRequired("jd-file")
}

func runScreen(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jdData, err := os.ReadFile(cmd.Flag("jd-file").Value.String())
	if err != nil {
		logger.Fatal("reading job description file", zap.Error(err))
	}

	resumes := make([]screening.Resume, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("reading resume file", zap.String("file", path), zap.Error(err))
		}
		resumes = append(resumes, screening.Resume{Filename: filepath.Base(path), Data: data})
	}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the gemini client", zap.Error(err))
	}

	sendMails, _ := cmd.Flags().GetBool("send-mails")

	var notifier screening.Notifier
	if sendMails {
		notifier = newMailer(config, logger)
		if notifier == nil {
			logger.Fatal("smtp configuration is required to send notifications")
		}

		if cmd.Flag("auto-aprove").Value.String() == "false" {
			prompt := promptui.Select{
				Label: fmt.Sprintf("Send notification emails to shortlisted candidates out of %d resumes?", len(resumes)),
				Items: []string{PromptYes, PromptNo},
			}
			_, action, err := prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
			if action == PromptNo {
				sendMails = false
			}
		}
	}

	cutoff, _ := cmd.Flags().GetFloat64("cutoff")
	if cutoff == 0 && config.Screening != nil {
		cutoff = config.Screening.Cutoff
	}

	pipeline := screening.NewPipeline(generator, notifier, logger)

	batch, err := pipeline.Run(ctx, string(jdData), cutoff, sendMails, resumes)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	printResults(batch)
	persistResults(ctx, config, batch, logger)

	if path := cmd.Flag("report").Value.String(); path != "" {
		if err := screening.WriteReport(batch, path); err != nil {
			logger.Fatal("writing the report", zap.Error(err))
		}
		logger.Info("report written", zap.String("file", path))
	}
}

func printResults(batch *screening.Batch) {
	fmt.Printf("\n%-4s %-24s %-28s %-8s %s\n", "#", "Candidate", "Email", "Score", "Status")
	for i, res := range batch.Results {
		fmt.Printf("%-4d %-24s %-28s %-8.4f %s\n",
			i+1, res.CandidateName, res.Email, res.Score, res.Status)
	}
	fmt.Printf("\nCutoff: %.2f\n", batch.Cutoff)
}

// persistResults records each screened candidate in the document store and
// the audit trail when those are configured.
func persistResults(ctx context.Context, config *Config, batch *screening.Batch, logger *zap.Logger) {
	var auditLog *audit.Log
	if config.AuditFile != "" {
		auditLog = audit.NewLog(config.AuditFile)
	}

	store := connectDocstore(ctx, config, logger)
	if store != nil {
		defer store.Close(context.Background())
	}
	if store == nil && auditLog == nil {
		return
	}

	for _, res := range batch.Results {
		if store != nil && res.Email != "" {
			err := store.UpsertCandidate(ctx, docstore.CandidateRecord{
				Name:            res.CandidateName,
				Email:           res.Email,
				Phone:           res.Phone,
				ResumeFile:      res.Filename,
				MatchScore:      res.Score,
				ScreeningResult: res.Status,
			})
			if err != nil {
				logger.Warn("saving candidate failed", zap.String("email", res.Email), zap.Error(err))
			}
		}

		if auditLog != nil {
			err := auditLog.Append(audit.Entry{
				CandidateName:   res.CandidateName,
				Email:           res.Email,
				Phone:           res.Phone,
				ScreeningResult: res.Status,
			})
			if err != nil {
				logger.Warn("writing audit row failed", zap.Error(err))
			}
		}
	}
}
