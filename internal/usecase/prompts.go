package usecase

import (
	"fmt"
	"strings"

	"policyqa/internal/domain"
)

// sentinelContext fills the template's context slot when no passages
// qualify. The slot is never left empty: the template tells the model not
// to invent document attributions when it sees this text.
const sentinelContext = "No specific information about this topic was found in NovaTech's security policy documents."

// defaultAnswerTemplate is the system prompt for answer generation, with
// {context} and {question} slots substituted immediately before each call.
const defaultAnswerTemplate = `You are a helpful assistant that provides informative answers about all topics, with special expertise on NovaTech Dynamics' security policies. Always give a helpful response based on your general knowledge. When information from NovaTech's security documents is relevant, incorporate and highlight that specific information to enhance your answer.

If the provided document extracts contain relevant information, integrate it into your response and clearly indicate where you're referencing NovaTech's specific policies by using phrases like 'According to NovaTech's security policy...' or 'NovaTech's documents specify that...'. If the document information states that nothing was found, answer from general knowledge alone and do not attribute anything to NovaTech's documents.

Document information (if relevant):
{context}

Question: {question}
Answer:`

// fallbackSystemPrompt is used when the context-aware generation fails.
const fallbackSystemPrompt = "You are a helpful assistant. Please answer the following question based on your general knowledge."

const judgeUserPrompt = "Analyze whether these documents would enhance a response about NovaTech's security policies. Respond with ENHANCE or NO_ENHANCEMENT."

// judgeSystemPrompt builds the relevance judge prompt: it names the target
// domain, gives in-domain and out-of-domain example topics, and presents
// the formatted extracts for a two-way decision.
func judgeSystemPrompt(question, context string) string {
	var b strings.Builder

	b.WriteString("Your task is to determine if the retrieved documents contain information that would meaningfully enhance a response about NovaTech Dynamics' security policies.\n\n")

	b.WriteString("SECURITY POLICY TOPICS (examples where documents WOULD enhance the response):\n")
	b.WriteString("- Password requirements and management\n")
	b.WriteString("- Data classification systems\n")
	b.WriteString("- Access control procedures\n")
	b.WriteString("- Security monitoring\n")
	b.WriteString("- Incident response\n")
	b.WriteString("- Employee termination processes\n")
	b.WriteString("- Backup procedures\n")
	b.WriteString("- Device security\n")
	b.WriteString("- Physical security measures\n")
	b.WriteString("- Security roles and contacts\n\n")

	b.WriteString("NON-POLICY TOPICS (examples where documents would NOT enhance the response):\n")
	b.WriteString("- General geography or locations\n")
	b.WriteString("- General technology concepts (e.g., what are transformers)\n")
	b.WriteString("- Topics unrelated to security\n")
	b.WriteString("- General knowledge questions\n")
	b.WriteString("- Questions about other companies\n\n")

	fmt.Fprintf(&b, "Query: %s\n\n", question)
	fmt.Fprintf(&b, "Document Extracts:\n%s\n\n", context)

	b.WriteString("First, determine if the query is asking about NovaTech's security policies or practices. ")
	b.WriteString("Second, examine if the document extracts contain specific, relevant information that addresses the query. ")
	b.WriteString("Third, decide if incorporating this document information would make the response more accurate and helpful.\n\n")

	b.WriteString("Respond with one of these options:\n")
	b.WriteString("ENHANCE - If the documents contain relevant information that would improve the response to this security policy question\n")
	b.WriteString("NO_ENHANCEMENT - If the documents don't contain relevant information or if the query isn't about security policies")

	return b.String()
}

// FormatContext concatenates passages in retrieval order, each labeled with
// a 1-based ordinal, separated by blank lines. Empty input yields the
// sentinel context.
func FormatContext(passages []domain.Passage) string {
	if len(passages) == 0 {
		return sentinelContext
	}

	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("Extract %d:\n%s", i+1, strings.TrimSpace(p.Text))
	}
	return strings.Join(parts, "\n\n")
}

func renderTemplate(template, context, question string) string {
	out := strings.ReplaceAll(template, "{context}", context)
	return strings.ReplaceAll(out, "{question}", question)
}
