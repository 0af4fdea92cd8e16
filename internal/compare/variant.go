package compare

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Variant is one answering strategy under comparison. Enhanced variants
// layer extra prompting or retrieval steps on top of the baseline API; on
// failure they fall back to the plain baseline answer so a single provider
// hiccup does not blank out a whole comparison row.
type Variant interface {
	Name() string
	Answer(ctx context.Context, question string) (string, error)
}

// Baseline answers through the pipeline as-is.
type Baseline struct {
	client *Client
}

func NewBaseline(client *Client) *Baseline { return &Baseline{client: client} }

func (v *Baseline) Name() string { return "Baseline" }

func (v *Baseline) Answer(ctx context.Context, question string) (string, error) {
	return v.client.Query(ctx, question)
}

// QueryExpansion rewrites the question into several phrasings, answers each
// through the pipeline, and synthesizes the results into one response.
type QueryExpansion struct {
	client *Client
	log    *zap.Logger
}

func NewQueryExpansion(client *Client, log *zap.Logger) *QueryExpansion {
	return &QueryExpansion{client: client, log: log}
}

func (v *QueryExpansion) Name() string { return "Query Expansion + Synthesis" }

func (v *QueryExpansion) Answer(ctx context.Context, question string) (string, error) {
	expanded, err := v.expand(ctx, question)
	if err != nil {
		v.log.Warn("query expansion failed, using baseline", zap.Error(err))
		return v.client.Query(ctx, question)
	}

	answers := make([]string, 0, len(expanded))
	for _, q := range expanded {
		answer, err := v.client.Query(ctx, q)
		if err != nil {
			v.log.Warn("expanded query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		answers = append(answers, answer)
	}
	if len(answers) == 0 {
		return v.client.Query(ctx, question)
	}

	return v.synthesize(ctx, question, answers)
}

func (v *QueryExpansion) expand(ctx context.Context, question string) ([]string, error) {
	system := "Generate 3 different versions of the following query about security policies. " +
		"Each version should rephrase the question to improve document retrieval by using " +
		"different terminology, specific security policy terms, or focusing on different aspects " +
		"of the question.\n\n" +
		"Return ONLY the rewritten queries, one per line, without numbering or explanation."

	raw, err := v.client.Complete(ctx, system, "Original query: "+question, 0.3, 150)
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, line := range strings.Split(raw, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			queries = append(queries, q)
		}
	}
	queries = append(queries, question)
	return queries, nil
}

func (v *QueryExpansion) synthesize(ctx context.Context, question string, answers []string) (string, error) {
	system := "You are a security policy expert answering questions about company security policies. " +
		"Below are several answers to variations of the same question about security policies.\n\n" +
		"Your task is to:\n" +
		"1. Analyze all answers to identify the most accurate and relevant information\n" +
		"2. Rerank the information from most to least relevant to the original question\n" +
		"3. Synthesize a single comprehensive response that addresses all aspects of the question\n" +
		"4. Ensure you cite specific security policy details\n" +
		"5. Structure your answer clearly with the most important information first"

	var user strings.Builder
	fmt.Fprintf(&user, "Original question: %s\n\n", question)
	for i, answer := range answers {
		fmt.Fprintf(&user, "Answer variation %d:\n%s\n\n", i+1, answer)
	}
	user.WriteString("Please synthesize these into a single comprehensive answer to the original question.")

	return v.client.Complete(ctx, system, user.String(), 0.5, 800)
}

// KeywordCompression extracts keywords from the question, compresses the
// baseline answer down to its relevant parts, and regenerates an answer
// emphasizing the keywords.
type KeywordCompression struct {
	client *Client
	log    *zap.Logger
}

func NewKeywordCompression(client *Client, log *zap.Logger) *KeywordCompression {
	return &KeywordCompression{client: client, log: log}
}

func (v *KeywordCompression) Name() string { return "Keyword Search + Compression" }

func (v *KeywordCompression) Answer(ctx context.Context, question string) (string, error) {
	baseline, err := v.client.Query(ctx, question)
	if err != nil {
		return "", err
	}

	keywords, err := v.extractKeywords(ctx, question)
	if err != nil {
		v.log.Warn("keyword extraction failed, using baseline", zap.Error(err))
		return baseline, nil
	}

	compressed, err := v.compress(ctx, question, baseline)
	if err != nil {
		v.log.Warn("compression failed, using baseline", zap.Error(err))
		return baseline, nil
	}

	enhanced, err := v.enhance(ctx, question, compressed, keywords)
	if err != nil {
		v.log.Warn("enhancement failed, using baseline", zap.Error(err))
		return baseline, nil
	}
	return enhanced, nil
}

func (v *KeywordCompression) extractKeywords(ctx context.Context, question string) ([]string, error) {
	system := "Extract the 3-5 most important keywords or phrases from this security policy question. " +
		"Focus on technical terms, specific security concepts, policy elements, or named entities. " +
		"Return ONLY the keywords, one per line, without numbering or explanation."

	raw, err := v.client.Complete(ctx, system, "Question: "+question, 0.1, 100)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, line := range strings.Split(raw, "\n") {
		if k := strings.TrimSpace(line); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords, nil
}

func (v *KeywordCompression) compress(ctx context.Context, question, answer string) (string, error) {
	system := "You are an expert at contextual compression for security policy information. " +
		"Given a question and a response that may contain some irrelevant information, your task is to:\n\n" +
		"1. Identify the most relevant parts of the response that directly answer the question\n" +
		"2. Remove any irrelevant sections, tangential information, or redundancies\n" +
		"3. Preserve all factual details, specific policy references, and security requirements\n" +
		"4. Maintain the accuracy of the information\n\n" +
		"Return a compressed version that contains only the information needed to comprehensively answer the question."

	user := fmt.Sprintf("Question: %s\n\nOriginal Response: %s\n\nCompressed Context:", question, answer)
	return v.client.Complete(ctx, system, user, 0.2, 600)
}

func (v *KeywordCompression) enhance(ctx context.Context, question, docContext string, keywords []string) (string, error) {
	system := "You are a security policy expert answering questions about security policies. " +
		"Given a question, some context information, and important keywords, " +
		"your task is to create a comprehensive answer that:\n\n" +
		"1. Addresses the original question completely\n" +
		"2. Uses the provided context information as the primary source\n" +
		"3. Emphasizes information related to the identified keywords\n" +
		"4. Organizes the response in a clear, structured format\n" +
		"5. Cites specific security policy details and sections when relevant"

	user := fmt.Sprintf("Question: %s\n\nContext Information: %s\n\nImportant Keywords: %s\n\nComprehensive Answer:",
		question, docContext, strings.Join(keywords, ", "))
	return v.client.Complete(ctx, system, user, 0.5, 800)
}

// SelfQuery analyzes the question's topic structure, derives more specific
// sub-queries from it, and synthesizes all their answers at a detail level
// chosen by the analysis.
type SelfQuery struct {
	client *Client
	log    *zap.Logger
}

func NewSelfQuery(client *Client, log *zap.Logger) *SelfQuery {
	return &SelfQuery{client: client, log: log}
}

func (v *SelfQuery) Name() string { return "Topic Analysis + Self-Query" }

func (v *SelfQuery) Answer(ctx context.Context, question string) (string, error) {
	structure, err := v.analyzeTopic(ctx, question)
	if err != nil {
		v.log.Warn("topic analysis failed, using baseline", zap.Error(err))
		return v.client.Query(ctx, question)
	}

	queries, err := v.refineQueries(ctx, question, structure)
	if err != nil {
		v.log.Warn("self-query generation failed, using baseline", zap.Error(err))
		return v.client.Query(ctx, question)
	}

	var answers []string
	for _, q := range queries {
		answer, err := v.client.Query(ctx, q)
		if err != nil {
			continue
		}
		answers = append(answers, answer)
	}
	if len(answers) == 0 {
		return v.client.Query(ctx, question)
	}

	return v.synthesize(ctx, question, answers, structure)
}

func (v *SelfQuery) analyzeTopic(ctx context.Context, question string) (map[string]string, error) {
	system := "Analyze this question about security policies to determine the optimal information structure for answering it. " +
		"Identify the main topic, any subtopics, and the appropriate level of detail needed.\n\n" +
		"Return your analysis in the following format:\n" +
		"Main Topic: [The primary security policy area being asked about]\n" +
		"Subtopics: [List of 2-3 related subtopics that should be addressed]\n" +
		"Detail Level: [Brief/Moderate/Comprehensive]\n" +
		"Key Terms: [Important technical or policy terms related to this question]"

	raw, err := v.client.Complete(ctx, system, "Security Policy Question: "+question, 0.2, 250)
	if err != nil {
		return nil, err
	}

	structure := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if found {
			structure[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return structure, nil
}

func (v *SelfQuery) refineQueries(ctx context.Context, question string, structure map[string]string) ([]string, error) {
	system := "You are an expert at breaking down complex security policy questions into more specific queries. " +
		"Based on the original question and topic analysis, generate 3 more specific queries that will " +
		"help retrieve the most relevant information from a security policy document.\n\n" +
		"Return ONLY the 3 refined queries, one per line, without numbering or explanation."

	var user strings.Builder
	fmt.Fprintf(&user, "Original Question: %s\n\nTopic Analysis:\n", question)
	for k, val := range structure {
		fmt.Fprintf(&user, "%s: %s\n", k, val)
	}
	user.WriteString("\nGenerate 3 specific queries to find the most relevant information:")

	raw, err := v.client.Complete(ctx, system, user.String(), 0.3, 200)
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, line := range strings.Split(raw, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			queries = append(queries, q)
		}
	}
	queries = append(queries, question)
	return queries, nil
}

func (v *SelfQuery) synthesize(ctx context.Context, question string, answers []string, structure map[string]string) (string, error) {
	style := "Provide a balanced response with moderate detail on all relevant aspects."
	switch {
	case strings.Contains(strings.ToLower(structure["Detail Level"]), "brief"):
		style = "Provide a concise summary focusing only on the most essential points."
	case strings.Contains(strings.ToLower(structure["Detail Level"]), "comprehensive"):
		style = "Provide a detailed, comprehensive answer covering all aspects in depth."
	}

	system := "You are a security policy expert tasked with synthesizing information from multiple sources " +
		"to answer a question about security policies.\n\n" +
		"Based on the topic analysis, you should: " + style + "\n\n" +
		"Your synthesis should:\n" +
		"1. Organize information according to the identified topic structure\n" +
		"2. Emphasize the main topic while covering all relevant subtopics\n" +
		"3. Include specific security policy details, requirements, and procedures\n" +
		"4. Use consistent terminology from the security domain"

	var user strings.Builder
	fmt.Fprintf(&user, "Original Question: %s\n\n", question)
	for i, answer := range answers {
		fmt.Fprintf(&user, "Information Source %d:\n%s\n\n", i+1, answer)
	}
	user.WriteString("Please synthesize a final answer to the original question.")

	return v.client.Complete(ctx, system, user.String(), 0.4, 800)
}
