package compare

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Engine runs every answering variant against a question, scores the
// responses, and renders the comparison.
type Engine struct {
	client        *Client
	variants      []Variant
	evaluator     *Evaluator
	discriminator *Discriminator
	delay         time.Duration
	log           *zap.Logger
}

// NewEngine builds an engine with the full variant roster. The delay is
// inserted between variant runs to stay under provider rate limits;
// judgeRetries bounds discriminator retry attempts.
func NewEngine(client *Client, delay time.Duration, judgeRetries int, log *zap.Logger) *Engine {
	return &Engine{
		client: client,
		variants: []Variant{
			NewBaseline(client),
			NewQueryExpansion(client, log),
			NewKeywordCompression(client, log),
			NewSelfQuery(client, log),
			NewChainOfThought(client, log),
			NewFewShot(client, log),
			NewRoleBased(client, log),
		},
		evaluator:     NewEvaluator(client, log),
		discriminator: NewDiscriminator(client, judgeRetries, log),
		delay:         delay,
		log:           log,
	}
}

// VariantNames returns the roster in run order.
func (e *Engine) VariantNames() []string {
	names := make([]string, len(e.variants))
	for i, v := range e.variants {
		names[i] = v.Name()
	}
	return names
}

// Result is one variant's answer and scores for a question.
type Result struct {
	Variant  string
	Response string
	Metrics  map[string]float64
	Err      error
}

// Comparison is the full outcome for one question.
type Comparison struct {
	Question string
	Results  []Result
	Ranking  *Ranking
}

// Run answers the question with every variant, evaluates each response
// against the baseline answer as context, and ranks them. Variant
// failures become error rows instead of aborting the comparison.
func (e *Engine) Run(ctx context.Context, question string) (*Comparison, error) {
	comparison := &Comparison{Question: question}
	responses := make(map[string]string)
	var order []string

	for i, variant := range e.variants {
		if i > 0 && e.delay > 0 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		e.log.Info("running variant", zap.String("variant", variant.Name()))
		answer, err := variant.Answer(ctx, question)
		if err != nil {
			e.log.Warn("variant failed", zap.String("variant", variant.Name()), zap.Error(err))
			comparison.Results = append(comparison.Results, Result{Variant: variant.Name(), Err: err})
			continue
		}
		responses[variant.Name()] = answer
		order = append(order, variant.Name())
		comparison.Results = append(comparison.Results, Result{Variant: variant.Name(), Response: answer})
	}

	if len(responses) == 0 {
		return nil, fmt.Errorf("all variants failed for question %q", question)
	}

	// The baseline answer doubles as evaluation context, matching what the
	// pipeline actually retrieved.
	evalContext := responses[e.variants[0].Name()]

	for i := range comparison.Results {
		r := &comparison.Results[i]
		if r.Err != nil {
			continue
		}
		e.log.Info("evaluating variant", zap.String("variant", r.Variant))
		r.Metrics = e.evaluator.Evaluate(ctx, question, r.Response, evalContext)
	}

	ranking, err := e.discriminator.Rank(ctx, question, responses, order, evalContext)
	if err != nil {
		e.log.Warn("ranking failed", zap.Error(err))
	} else {
		comparison.Ranking = ranking
	}

	return comparison, nil
}

// RenderTable writes a colored summary table of the comparison.
func (e *Engine) RenderTable(w io.Writer, comparison *Comparison) {
	header := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	header.Fprintf(w, "Question: %s\n\n", comparison.Question)
	header.Fprintf(w, "%-32s", "Variant")
	for _, m := range MetricNames {
		header.Fprintf(w, "%12s", m)
	}
	header.Fprintf(w, "%12s\n", "average")

	for _, r := range comparison.Results {
		fmt.Fprintf(w, "%-32s", r.Variant)
		if r.Err != nil {
			bad.Fprintf(w, "  error: %v\n", r.Err)
			continue
		}
		for _, m := range MetricNames {
			fmt.Fprintf(w, "%12.1f", r.Metrics[m])
		}
		avg := r.Metrics["average"]
		if avg >= 7 {
			good.Fprintf(w, "%12.1f\n", avg)
		} else {
			fmt.Fprintf(w, "%12.1f\n", avg)
		}
	}

	if comparison.Ranking != nil {
		header.Fprintf(w, "\nRanking:\n")
		for i, name := range comparison.Ranking.Order {
			fmt.Fprintf(w, "%d. %s\n", i+1, name)
		}
	}
}

// Report renders the comparison as a markdown document.
func Report(comparison *Comparison) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comparison Report for Question: %q\n\n", comparison.Question)

	b.WriteString("## Responses\n\n")
	for _, r := range comparison.Results {
		fmt.Fprintf(&b, "### %s\n\n", r.Variant)
		if r.Err != nil {
			fmt.Fprintf(&b, "Error: %v\n\n", r.Err)
			continue
		}
		fmt.Fprintf(&b, "%s\n\n", r.Response)
	}

	b.WriteString("## Evaluation Metrics\n\n")
	b.WriteString("| Variant |")
	for _, m := range MetricNames {
		fmt.Fprintf(&b, " %s |", m)
	}
	b.WriteString(" average |\n|---|")
	for range MetricNames {
		b.WriteString("---|")
	}
	b.WriteString("---|\n")
	for _, r := range comparison.Results {
		if r.Err != nil {
			continue
		}
		fmt.Fprintf(&b, "| %s |", r.Variant)
		for _, m := range MetricNames {
			fmt.Fprintf(&b, " %.1f |", r.Metrics[m])
		}
		fmt.Fprintf(&b, " %.1f |\n", r.Metrics["average"])
	}
	b.WriteString("\n")

	if comparison.Ranking != nil {
		b.WriteString("## Expert Comparison\n\n")
		b.WriteString(comparison.Ranking.Detailed)
		b.WriteString("\n\n## Ranking\n\n")
		for i, name := range comparison.Ranking.Order {
			fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		}
	}

	return b.String()
}

// SaveReport writes the markdown report under dir with a timestamped name
// and returns the path.
func SaveReport(comparison *Comparison, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("comparison_%s.md", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(Report(comparison)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
