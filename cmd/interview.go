package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/audit"
	"github.com/fwc-ai/hr-agent/internal/docstore"
	"github.com/fwc-ai/hr-agent/internal/interview"
	"github.com/fwc-ai/hr-agent/internal/logger"
	"github.com/fwc-ai/hr-agent/internal/speech"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive interview session in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("candidate", "c", "", "candidate name")
	interviewCmd.Flags().String("resume-file", "", "resume file used to derive the candidate name")
	interviewCmd.Flags().String("jd-file", "", "job description file used to tailor the questions")
	interviewCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before starting")
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the gemini client", zap.Error(err))
	}

	var resumeText string
	if path := cmd.Flag("resume-file").Value.String(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("reading resume file", zap.Error(err))
		}
		resumeText = string(data)
	}

	var jobDescription string
	if path := cmd.Flag("jd-file").Value.String(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("reading job description file", zap.Error(err))
		}
		jobDescription = string(data)
	}

	if cmd.Flag("auto-aprove").Value.String() == "false" {
		prompt := promptui.Select{
			Label: "Start the interview?",
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	store := connectDocstore(ctx, config, logger)
	if store != nil {
		defer store.Close(context.Background())
	}

	var sinks []interview.Sink
	if store != nil {
		sinks = append(sinks, docstore.NewInterviewSink(store))
	}
	if config.AuditFile != "" {
		sinks = append(sinks, audit.NewInterviewSink(audit.NewLog(config.AuditFile)))
	}

	service := newInterviewService(
		generator,
		interview.NewMultiSink(logger, sinks...),
		config.interviewDuration(),
		config.sessionTTL(),
		logger,
	)

	console := speech.NewConsole(os.Stdin, os.Stdout, logger)
	durationMinutes := int(config.interviewDuration().Minutes())

	if err := console.Say(ctx, interview.OpeningMessage(durationMinutes)); err != nil {
		logger.Fatal("writing to console", zap.Error(err))
	}

	ready, err := console.Listen(ctx)
	if err != nil {
		logger.Fatal("reading readiness answer", zap.Error(err))
	}
	if !speech.IsAffirmative(ready) {
		console.Say(ctx, "No problem. Come back when you are ready. Goodbye!")
		return
	}

	result, err := service.Start(ctx, interview.StartRequest{
		CandidateName:  cmd.Flag("candidate").Value.String(),
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err != nil {
		logger.Fatal("starting the interview", zap.Error(err))
	}

	logger.Info("interview started",
		zap.String("session_id", result.SessionID),
		zap.String("candidate", result.CandidateName),
	)

	for {
		next, err := service.Next(ctx, result.SessionID)
		if err != nil {
			logger.Fatal("advancing the interview", zap.Error(err))
		}
		if next.Done {
			break
		}

		question := fmt.Sprintf("Question %d: %s", next.Index+1, next.Question)
		if err := console.Say(ctx, question); err != nil {
			logger.Fatal("writing to console", zap.Error(err))
		}

		answer, err := speech.ListenWithRetry(ctx, console, console)
		if err != nil {
			logger.Fatal("reading the answer", zap.Error(err))
		}

		// No usable answer after both attempts: drop the question unscored.
		if answer == "" {
			console.Say(ctx, "Let's move on to the next question.")
			if err := service.Skip(ctx, result.SessionID); err != nil {
				logger.Fatal("skipping the question", zap.Error(err))
			}
			continue
		}

		if _, err := service.Answer(ctx, result.SessionID, answer); err != nil {
			logger.Fatal("scoring the answer", zap.Error(err))
		}
	}

	console.Say(ctx, "Thank you for your time! The interview is now complete.")

	evaluation, err := service.Finish(ctx, result.SessionID)
	if err != nil {
		logger.Fatal("finishing the interview", zap.Error(err))
	}

	printEvaluation(evaluation)
}

func printEvaluation(ev *interview.Evaluation) {
	line := strings.Repeat("=", 50)
	fmt.Printf("\n%s\n", line)
	fmt.Printf("Candidate:      %s\n", ev.CandidateName)
	fmt.Printf("Duration:       %.1f minutes\n", ev.Duration.Minutes())
	fmt.Printf("Questions:      %d\n", ev.QuestionsAsked)
	fmt.Printf("Overall score:  %.1f\n", ev.OverallScore)
	fmt.Printf("Recommendation: %s\n", ev.Recommendation)
	fmt.Printf("%s\n\n%s\n%s\n", line, ev.Text, line)
}
