package compare

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ChainOfThought walks the model through an explicit reasoning sequence
// over the baseline answer, then distills the reasoning into a clean
// final response.
type ChainOfThought struct {
	client *Client
	log    *zap.Logger
}

func NewChainOfThought(client *Client, log *zap.Logger) *ChainOfThought {
	return &ChainOfThought{client: client, log: log}
}

func (v *ChainOfThought) Name() string { return "Chain-of-Thought" }

func (v *ChainOfThought) Answer(ctx context.Context, question string) (string, error) {
	baseline, err := v.client.Query(ctx, question)
	if err != nil {
		return "", err
	}

	system := "You are a security policy expert answering questions about company security policies. " +
		"Use a structured chain-of-thought approach to analyze and answer this security policy question:\n\n" +
		"Step 1: Identify the specific security policy domain(s) this question relates to.\n" +
		"Step 2: Recall the relevant policy details, requirements, and guidelines.\n" +
		"Step 3: Consider any exceptions, special cases, or related policies that might apply.\n" +
		"Step 4: Analyze how these policies would apply in the context of the question.\n" +
		"Step 5: Formulate a comprehensive answer that directly addresses the question.\n\n" +
		"For each step, think through your reasoning explicitly before moving to the next step."

	user := fmt.Sprintf("Question about security policy: %s\n\nRelevant policy information: %s\n\n"+
		"Please answer this question using the step-by-step approach described above. "+
		"For each step, start with 'Step X:' and explain your reasoning.", question, baseline)

	reasoning, err := v.client.Complete(ctx, system, user, 0.3, 800)
	if err != nil {
		v.log.Warn("chain-of-thought generation failed, using baseline", zap.Error(err))
		return baseline, nil
	}

	extractSystem := "Given your detailed chain-of-thought analysis below, extract just the final answer " +
		"to the original question. The answer should be comprehensive and well-structured, " +
		"but without the explicit step-by-step reasoning. Keep all policy citations and important details."

	answer, err := v.client.Complete(ctx, extractSystem, reasoning, 0.3, 500)
	if err != nil {
		v.log.Warn("answer extraction failed, using baseline", zap.Error(err))
		return baseline, nil
	}
	return answer, nil
}

// fewShotExamples demonstrates the desired answer structure: policy
// section reference first, structured requirements, document citation at
// the end.
var fewShotExamples = []struct {
	question string
	answer   string
}{
	{
		question: "What is NovaTech's password policy?",
		answer: "According to NovaTech's Security Policy (Section: Password Policy), passwords must meet the following requirements:\n\n" +
			"1. Passwords must be changed every 90 days through the automated password management system\n" +
			"2. Password history of 12 previous passwords is maintained to prevent reuse\n" +
			"3. Minimum requirements include 12 characters, mixed case, a number, and a special character\n\n" +
			"These requirements are documented in the Security Policy document NTD-SEC-001-2025 (version 3.2).",
	},
	{
		question: "What is the data classification system at NovaTech?",
		answer: "According to NovaTech's Security Policy, the company employs a three-tier data classification system:\n\n" +
			"1. Level 1 - Restricted: Highest sensitivity data including proprietary algorithms and financial forecasts\n" +
			"2. Level 2 - Confidential: Medium sensitivity data including customer data and employee records\n" +
			"3. Level 3 - Internal: Low sensitivity data including general communications\n\n" +
			"This classification system is documented in the Security Policy document NTD-SEC-001-2025 (version 3.2).",
	},
	{
		question: "What happens during the employee termination process?",
		answer: "According to NovaTech's Security Policy (Section: Employee Termination Process), the following procedures apply:\n\n" +
			"1. HR initiates an offboarding workflow\n" +
			"2. All access is revoked within 4 hours of termination notification\n" +
			"3. Equipment is collected and sanitized\n" +
			"4. Digital access cards are deactivated\n\n" +
			"These requirements are documented in the Security Policy document NTD-SEC-001-2025 (version 3.2).",
	},
}

// FewShot prepends worked examples to steer the answer structure.
type FewShot struct {
	client *Client
	log    *zap.Logger
}

func NewFewShot(client *Client, log *zap.Logger) *FewShot {
	return &FewShot{client: client, log: log}
}

func (v *FewShot) Name() string { return "Few-Shot" }

func (v *FewShot) Answer(ctx context.Context, question string) (string, error) {
	baseline, err := v.client.Query(ctx, question)
	if err != nil {
		return "", err
	}

	system := "You are a security policy expert answering questions about company security policies. " +
		"Below are some examples of high-quality answers to previous questions about security policies. " +
		"Use these examples as a guide for how to structure and present your answer to the new question.\n\n"
	for i, ex := range fewShotExamples {
		system += fmt.Sprintf("Example Question %d: %s\n\nExample Answer %d: %s\n\n", i+1, ex.question, i+1, ex.answer)
	}
	system += "Your answer should follow a similar format to these examples. Specifically:\n" +
		"1. Begin by referencing the relevant section of the security policy\n" +
		"2. Provide a comprehensive answer with specific details, not generalities\n" +
		"3. List requirements, procedures, or policies in a structured format\n" +
		"4. Include specific values (e.g., password length, time periods) where relevant\n" +
		"5. Cite the policy document details at the end"

	user := fmt.Sprintf("New Question: %s\n\nContext Information: %s\n\n"+
		"Please provide a detailed answer following the structured format shown in the examples.", question, baseline)

	answer, err := v.client.Complete(ctx, system, user, 0.4, 800)
	if err != nil {
		v.log.Warn("few-shot generation failed, using baseline", zap.Error(err))
		return baseline, nil
	}
	return answer, nil
}

// RoleBased answers in the voice of the company's security lead, then runs
// a self-verification pass against the baseline answer.
type RoleBased struct {
	client *Client
	log    *zap.Logger
}

func NewRoleBased(client *Client, log *zap.Logger) *RoleBased {
	return &RoleBased{client: client, log: log}
}

func (v *RoleBased) Name() string { return "Role-Based + Self-Verification" }

func (v *RoleBased) Answer(ctx context.Context, question string) (string, error) {
	baseline, err := v.client.Query(ctx, question)
	if err != nil {
		return "", err
	}

	roleSystem := "You are Sarah Chen, the Chief Information Security Officer at NovaTech Dynamics. " +
		"With over 15 years of experience in cybersecurity and as the author of the company's " +
		"security policy, you are the definitive authority on all security matters at the company.\n\n" +
		"When answering questions about the security policy:\n" +
		"1. Speak with the authority and precision expected of a CISO\n" +
		"2. Reference specific sections and requirements from the security policy\n" +
		"3. Provide practical implementation details where appropriate\n" +
		"4. Explain the rationale behind security requirements\n" +
		"5. Use technical security terminology accurately"

	roleUser := fmt.Sprintf("One of your employees has asked the following question about NovaTech's security policy:\n\n"+
		"Question: %s\n\nBased on the security policy document, this information is relevant:\n%s\n\n"+
		"Please respond to this employee's question as the CISO of NovaTech Dynamics.", question, baseline)

	draft, err := v.client.Complete(ctx, roleSystem, roleUser, 0.4, 800)
	if err != nil {
		v.log.Warn("role-based generation failed, using baseline", zap.Error(err))
		return baseline, nil
	}

	verifySystem := "You are a security policy verification expert tasked with ensuring that responses about " +
		"security policies are accurate, complete, and properly sourced.\n\n" +
		"Your verification process has four steps:\n" +
		"1. Accuracy Check: Verify that all policy details mentioned are accurate and consistent with the source\n" +
		"2. Completeness Check: Ensure all aspects of the question are addressed\n" +
		"3. Source Validation: Confirm all claims are properly attributed to the security policy\n" +
		"4. Correction: Fix any inaccuracies or omissions while maintaining the original tone and style\n\n" +
		"After your verification, provide the final, corrected version of the response. " +
		"If no corrections are needed, return the original response."

	verifyUser := fmt.Sprintf("Question about security policy: %s\n\nOriginal source information: %s\n\n"+
		"Response to verify: %s\n\nPlease verify this response for accuracy, completeness, and proper sourcing. "+
		"Then provide the final, corrected version.", question, baseline, draft)

	verified, err := v.client.Complete(ctx, verifySystem, verifyUser, 0.3, 800)
	if err != nil {
		v.log.Warn("verification failed, using unverified draft", zap.Error(err))
		return draft, nil
	}
	return verified, nil
}
