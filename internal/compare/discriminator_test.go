package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractScores(t *testing.T) {
	evaluation := `1. Policy Accuracy: 8 - The response reflects the context well.
2. Completeness: 7.5 - Most aspects covered.
3. Policy Relevance: 9 - Directly on topic.
4. Clarity & Structure: 6 - Somewhat repetitive.
5. Actionability: 8 - Practical steps included.

Overall assessment: a solid response. Overall score: 7.7`

	scores := extractScores(evaluation)

	assert.Equal(t, 8.0, scores["policy_accuracy"])
	assert.Equal(t, 7.5, scores["completeness"])
	assert.Equal(t, 9.0, scores["policy_relevance"])
	assert.Equal(t, 6.0, scores["clarity_structure"])
	assert.Equal(t, 8.0, scores["actionability"])
	assert.Equal(t, 7.7, scores["overall"])
}

func TestExtractScores_MissingOverallAverages(t *testing.T) {
	scores := extractScores("Completeness: 6\nActionability: 8")

	assert.Equal(t, 7.0, scores["overall"])
}

func TestExtractScores_NoScores(t *testing.T) {
	scores := extractScores("The response was interesting.")
	assert.Empty(t, scores)
}

func TestExtractRanking_ByName(t *testing.T) {
	names := []string{"Baseline", "Few-Shot", "Chain-of-Thought"}
	comparison := "Analysis here.\n\nFINAL RANKING: Chain-of-Thought (#1), Baseline (#2), Few-Shot (#3)"

	order := extractRanking(comparison, names)

	assert.Equal(t, []string{"Chain-of-Thought", "Baseline", "Few-Shot"}, order)
}

func TestExtractRanking_ByResponseNumber(t *testing.T) {
	names := []string{"Baseline", "Few-Shot"}
	comparison := "FINAL RANKING: Response 2 (#1), Response 1 (#2)"

	order := extractRanking(comparison, names)

	assert.Equal(t, []string{"Few-Shot", "Baseline"}, order)
}

func TestExtractRanking_UnmentionedAppended(t *testing.T) {
	names := []string{"Baseline", "Few-Shot", "Role-Based"}
	comparison := "FINAL RANKING: Few-Shot (#1)"

	order := extractRanking(comparison, names)

	assert.Equal(t, "Few-Shot", order[0])
	assert.Len(t, order, 3)
}

func TestParseScore(t *testing.T) {
	assert.Equal(t, 7.0, parseScore("7"))
	assert.Equal(t, 8.5, parseScore(" 8.5 \n"))
	assert.Equal(t, 10.0, parseScore("15"))
	assert.Equal(t, 0.0, parseScore("-3"))
	assert.Equal(t, 0.0, parseScore("not a number"))
}
