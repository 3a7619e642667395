package interview

import "regexp"

const (
	scoreMin     = 0
	scoreMax     = 10
	scoreNeutral = 5

	// CriteriaCount is the number of scored criteria per answer.
	CriteriaCount = 5
)

var integerPattern = regexp.MustCompile(`\b(\d+)\b`)

// ScoreSet holds the five per-criterion scores for one answer, each in [0,10].
type ScoreSet struct {
	TechnicalKnowledge  int `json:"technical_knowledge" bson:"technical_knowledge" mapstructure:"technical_knowledge"`
	CommunicationSkills int `json:"communication_skills" bson:"communication_skills" mapstructure:"communication_skills"`
	ProblemSolving      int `json:"problem_solving" bson:"problem_solving" mapstructure:"problem_solving"`
	ExperienceRelevance int `json:"experience_relevance" bson:"experience_relevance" mapstructure:"experience_relevance"`
	Confidence          int `json:"confidence" bson:"confidence" mapstructure:"confidence"`
}

// NeutralScores is the default vector recorded when model output cannot be parsed.
func NeutralScores() ScoreSet {
	return ScoreSet{
		TechnicalKnowledge:  scoreNeutral,
		CommunicationSkills: scoreNeutral,
		ProblemSolving:      scoreNeutral,
		ExperienceRelevance: scoreNeutral,
		Confidence:          scoreNeutral,
	}
}

// ParseScores extracts the first five integers from free-text model output and
// maps them positionally onto the criteria, clamped to [0,10]. Fewer than five
// integers yields the neutral vector. The model output is untrusted input;
// well-formedness is never assumed.
func ParseScores(text string) ScoreSet {
	matches := integerPattern.FindAllString(text, CriteriaCount)
	if len(matches) < CriteriaCount {
		return NeutralScores()
	}

	values := make([]int, CriteriaCount)
	for i, match := range matches {
		values[i] = clampScore(atoiSaturating(match))
	}

	return ScoreSet{
		TechnicalKnowledge:  values[0],
		CommunicationSkills: values[1],
		ProblemSolving:      values[2],
		ExperienceRelevance: values[3],
		Confidence:          values[4],
	}
}

// Total sums the five criteria.
func (s ScoreSet) Total() int {
	return s.TechnicalKnowledge + s.CommunicationSkills + s.ProblemSolving + s.ExperienceRelevance + s.Confidence
}

func clampScore(v int) int {
	if v < scoreMin {
		return scoreMin
	}
	if v > scoreMax {
		return scoreMax
	}
	return v
}

// atoiSaturating parses a digit string, saturating instead of failing on
// overflow. The input is guaranteed to be digits only by the regexp.
func atoiSaturating(s string) int {
	// Anything longer than two digits already exceeds the score range.
	if len(s) > 2 {
		return scoreMax + 1
	}
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
