package interview

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/scoring.md
var scoringPromptTemplate string

//go:embed prompts/evaluation.md
var evaluationPromptTemplate string

//go:embed prompts/questions.md
var questionsPromptTemplate string

//go:embed prompts/followups.md
var followupsPromptTemplate string

// openingMessage greets the candidate before the readiness check.
const openingMessage = "Welcome to your AI-powered interview! I'm your AI interviewer. " +
	"This interview will last approximately %d minutes and will consist of several questions. " +
	"Please speak clearly and take your time to answer each question thoughtfully. " +
	"Are you ready to begin?"

// OpeningMessage greets the candidate for an interview of the given length.
func OpeningMessage(durationMinutes int) string {
	return fmt.Sprintf(openingMessage, durationMinutes)
}

func buildScoringPrompt(question, response string) string {
	prompt := strings.ReplaceAll(scoringPromptTemplate, "{{RESPONSE}}", response)
	return strings.ReplaceAll(prompt, "{{QUESTION}}", question)
}

func buildEvaluationPrompt(summary string) string {
	return strings.ReplaceAll(evaluationPromptTemplate, "{{SUMMARY}}", summary)
}

func buildQuestionsPrompt(jobDescription string) string {
	return strings.ReplaceAll(questionsPromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)
}

func buildFollowupsPrompt(jobDescription, priorSummary string) string {
	prompt := strings.ReplaceAll(followupsPromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)
	return strings.ReplaceAll(prompt, "{{PRIOR_SUMMARY}}", priorSummary)
}
