package compare

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Discriminator runs a single holistic judge pass over a response or a set
// of competing responses, as opposed to the per-metric scoring in
// Evaluator.
type Discriminator struct {
	client  *Client
	retries int
	log     *zap.Logger
}

// NewDiscriminator creates a discriminator that retries failed judge
// calls up to retries times before giving up.
func NewDiscriminator(client *Client, retries int, log *zap.Logger) *Discriminator {
	if retries < 0 {
		retries = 0
	}
	return &Discriminator{client: client, retries: retries, log: log}
}

func (d *Discriminator) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		text, err := d.client.Complete(ctx, system, user, temperature, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		d.log.Warn("judge call failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", lastErr
}

// Assessment is one holistic evaluation: the judge's free text plus the
// scores recovered from it.
type Assessment struct {
	Detailed string
	Scores   map[string]float64
	Overall  float64
}

func (d *Discriminator) Evaluate(ctx context.Context, question, response, evalContext string) (*Assessment, error) {
	system := "You are an expert security policy evaluator tasked with assessing the quality of responses " +
		"to security policy questions.\n\n" +
		"Evaluate the response on these five criteria:\n" +
		"1. Policy Accuracy (0-10): How accurately does the response reflect security policy information in the context?\n" +
		"2. Completeness (0-10): How thoroughly does the response address all aspects of the question?\n" +
		"3. Policy Relevance (0-10): How relevant is the response to the specific security policy question asked?\n" +
		"4. Clarity & Structure (0-10): How well-organized and easy to understand is the response?\n" +
		"5. Actionability (0-10): How useful would this response be for an employee needing to follow security procedures?\n\n" +
		"For each criterion, provide a score from 0 to 10 with a short explanation. " +
		"End with an overall assessment and overall score (0-10)."

	user := fmt.Sprintf("Security Policy Question: %s\n\nContext Information: %s\n\nResponse to Evaluate: %s\n\n"+
		"Please provide your detailed evaluation of this response.", question, evalContext, response)

	evaluation, err := d.complete(ctx, system, user, 0.3, 1000)
	if err != nil {
		return nil, fmt.Errorf("discriminator evaluation failed: %w", err)
	}

	scores := extractScores(evaluation)
	return &Assessment{
		Detailed: evaluation,
		Scores:   scores,
		Overall:  scores["overall"],
	}, nil
}

// Ranking is the outcome of a head-to-head comparison across variants.
type Ranking struct {
	Detailed string
	Order    []string
}

// Rank asks the judge to compare all responses at once and recover an
// ordering from best to worst.
func (d *Discriminator) Rank(ctx context.Context, question string, responses map[string]string, order []string, evalContext string) (*Ranking, error) {
	system := "You are an expert evaluator of security policy information systems. " +
		"Your task is to compare multiple responses to the same security policy question " +
		"and rank them from best to worst.\n\n" +
		"Compare the responses based on accuracy, completeness, clarity, policy citations, and usefulness. " +
		"Provide a brief analysis of each response, then a final ranking with justification.\n\n" +
		"End with a clear numerical ranking in the format: 'FINAL RANKING: Response X (#1), Response Y (#2), ...'"

	var user strings.Builder
	fmt.Fprintf(&user, "Security Policy Question: %s\n\nContext Information: %s\n\n", question, evalContext)
	for i, name := range order {
		fmt.Fprintf(&user, "Response %d (%s):\n%s\n\n", i+1, name, responses[name])
	}
	user.WriteString("Please compare and rank these responses.")

	comparison, err := d.complete(ctx, system, user.String(), 0.3, 1000)
	if err != nil {
		return nil, fmt.Errorf("discriminator comparison failed: %w", err)
	}

	return &Ranking{
		Detailed: comparison,
		Order:    extractRanking(comparison, order),
	}, nil
}

var scorePatterns = map[string]*regexp.Regexp{
	"policy_accuracy":   regexp.MustCompile(`policy accuracy:?\s*\(?(\d+(?:\.\d+)?)`),
	"completeness":      regexp.MustCompile(`completeness:?\s*\(?(\d+(?:\.\d+)?)`),
	"policy_relevance":  regexp.MustCompile(`policy relevance:?\s*\(?(\d+(?:\.\d+)?)`),
	"clarity_structure": regexp.MustCompile(`clarity.{0,10}structure:?\s*\(?(\d+(?:\.\d+)?)`),
	"actionability":     regexp.MustCompile(`actionability:?\s*\(?(\d+(?:\.\d+)?)`),
	"overall":           regexp.MustCompile(`overall.{0,15}score:?\s*\(?(\d+(?:\.\d+)?)`),
}

// extractScores pulls per-criterion scores out of the judge's free text.
// A missing overall score falls back to the mean of whatever was found.
func extractScores(evaluation string) map[string]float64 {
	lower := strings.ToLower(evaluation)
	scores := make(map[string]float64)

	for name, pattern := range scorePatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		score, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if score < 0 {
			score = 0
		}
		if score > 10 {
			score = 10
		}
		scores[name] = score
	}

	if _, ok := scores["overall"]; !ok && len(scores) > 0 {
		var total float64
		for _, s := range scores {
			total += s
		}
		scores["overall"] = total / float64(len(scores))
	}

	return scores
}

// extractRanking recovers the variant order from the FINAL RANKING line,
// matching variants by name or by their response number. Variants the
// judge never mentioned are appended in their original order.
func extractRanking(comparison string, names []string) []string {
	section := comparison
	lower := strings.ToLower(comparison)
	if idx := strings.Index(lower, "final ranking:"); idx >= 0 {
		section = comparison[idx+len("final ranking:"):]
	} else if idx := strings.Index(lower, "ranking:"); idx >= 0 {
		section = comparison[idx+len("ranking:"):]
	}

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	seen := make(map[string]bool)

	for i, name := range names {
		pos := strings.Index(section, name)
		if pos < 0 {
			pos = strings.Index(section, fmt.Sprintf("Response %d", i+1))
		}
		if pos >= 0 {
			hits = append(hits, hit{name: name, pos: pos})
			seen[name] = true
		}
	}

	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].pos < hits[i].pos {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}

	ordered := make([]string, 0, len(names))
	for _, h := range hits {
		ordered = append(ordered, h.name)
	}
	for _, name := range names {
		if !seen[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
