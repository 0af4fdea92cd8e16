package compare

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MetricNames lists the evaluation metrics in report order.
var MetricNames = []string{
	"faithfulness",
	"completeness",
	"citation",
	"context_relevance",
	"answer_relevance",
	"coherence",
}

type metricSpec struct {
	name         string
	system       string
	needsContext bool
}

var metricSpecs = []metricSpec{
	{
		name:         "faithfulness",
		needsContext: true,
		system: "You are an expert evaluator assessing the faithfulness of responses to security policy questions. " +
			"Faithfulness measures how well the response is grounded in the provided context, without adding " +
			"information not present in the context or contradicting it.\n\n" +
			"Rate the faithfulness of the response on a scale from 0 to 10, where:\n" +
			"- 0: Completely unfaithful, containing many statements not supported by the context or contradicting it\n" +
			"- 5: Partially faithful, with some statements supported by the context and some not\n" +
			"- 10: Completely faithful, with all statements directly supported by the context\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
	{
		name: "completeness",
		system: "You are an expert evaluator assessing the completeness of responses to security policy questions. " +
			"Completeness measures whether the response addresses every aspect of the question.\n\n" +
			"Rate the completeness of the response on a scale from 0 to 10, where:\n" +
			"- 0: Completely incomplete, missing all key aspects of the question\n" +
			"- 5: Partially complete, addressing some aspects but missing others\n" +
			"- 10: Fully complete, thoroughly addressing every aspect of the question\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
	{
		name: "citation",
		system: "You are an expert evaluator assessing how well a response cites security policy sources. " +
			"Citation accuracy measures whether policy claims are attributed to specific sections, documents, " +
			"or requirements rather than stated without support.\n\n" +
			"Rate the citation quality of the response on a scale from 0 to 10, where:\n" +
			"- 0: No citations, all policy claims are unattributed\n" +
			"- 5: Some claims attributed to the policy, others unattributed\n" +
			"- 10: All policy claims clearly attributed to specific policy sections or documents\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
	{
		name:         "context_relevance",
		needsContext: true,
		system: "You are an expert evaluator assessing the relevance of context information to security policy questions. " +
			"Context relevance measures how well the retrieved information relates to and helps answer the query.\n\n" +
			"Rate the context relevance on a scale from 0 to 10, where:\n" +
			"- 0: Completely irrelevant, containing no information related to the question\n" +
			"- 5: Somewhat relevant, containing general information about the topic but missing specific details\n" +
			"- 10: Highly relevant, containing specific information that directly answers the question\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
	{
		name: "answer_relevance",
		system: "You are an expert evaluator assessing the relevance of responses to security policy questions. " +
			"Answer relevance measures how well the response addresses the specific question asked.\n\n" +
			"Rate the answer relevance on a scale from 0 to 10, where:\n" +
			"- 0: Completely irrelevant, not addressing the question at all\n" +
			"- 5: Somewhat relevant, addressing the general topic but missing key aspects\n" +
			"- 10: Highly relevant, directly and fully addressing the question\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
	{
		name: "coherence",
		system: "You are an expert evaluator assessing the coherence of responses to security policy questions. " +
			"Coherence measures how clear, well-structured, and logically organized the response is.\n\n" +
			"Rate the coherence of the response on a scale from 0 to 10, where:\n" +
			"- 0: Incoherent, disorganized, or contradictory\n" +
			"- 5: Understandable but poorly structured or repetitive\n" +
			"- 10: Clear, well-organized, and logically structured throughout\n\n" +
			"Return ONLY a number from 0 to 10 without any explanation.",
	},
}

// Evaluator scores responses with the model as judge, one call per metric.
type Evaluator struct {
	client *Client
	log    *zap.Logger
}

func NewEvaluator(client *Client, log *zap.Logger) *Evaluator {
	return &Evaluator{client: client, log: log}
}

// Evaluate scores one response on all metrics plus an "average" entry.
// Unparseable judge output scores zero for that metric rather than failing
// the run.
func (e *Evaluator) Evaluate(ctx context.Context, question, response, evalContext string) map[string]float64 {
	scores := make(map[string]float64, len(metricSpecs)+1)
	var total float64

	for _, spec := range metricSpecs {
		score := e.scoreMetric(ctx, spec, question, response, evalContext)
		scores[spec.name] = score
		total += score
	}
	scores["average"] = total / float64(len(metricSpecs))
	return scores
}

func (e *Evaluator) scoreMetric(ctx context.Context, spec metricSpec, question, response, evalContext string) float64 {
	var user strings.Builder
	fmt.Fprintf(&user, "Question: %s\n\n", question)
	if spec.needsContext {
		fmt.Fprintf(&user, "Context: %s\n\n", evalContext)
	}
	if spec.name != "context_relevance" {
		fmt.Fprintf(&user, "Response: %s\n\n", response)
	}
	fmt.Fprintf(&user, "%s score (0-10):", strings.ReplaceAll(spec.name, "_", " "))

	raw, err := e.client.Complete(ctx, spec.system, user.String(), 0.1, 10)
	if err != nil {
		e.log.Warn("metric evaluation failed", zap.String("metric", spec.name), zap.Error(err))
		return 0
	}
	return parseScore(raw)
}

// parseScore extracts a 0-10 score from judge output, clamping anything
// out of range.
func parseScore(raw string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
