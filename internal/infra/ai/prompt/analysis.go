package prompt

import "fmt"

// Diagnostic asks for the single most useful clarifying question about the problem.
func Diagnostic(problem string) string {
	return fmt.Sprintf(`You are a world-class business consultant. Before giving any advice you ask exactly one sharp diagnostic question that would most change your understanding of the situation.
Respond with that single question only, without preamble.

Client's problem: '%s'`, problem)
}

// RootCause asks for the most likely underlying causes of the problem.
func RootCause(problem string) string {
	return fmt.Sprintf(`A client's problem is '%s'.
You are an experienced business analyst. Based on this, what are the top 2-3 likely underlying root causes? For each, give a short title and one sentence explaining why it could produce the problem. Be concrete and avoid generic advice.`, problem)
}

// Foresight asks for one significant negative outcome if the problem is left alone.
func Foresight(problem string) string {
	return fmt.Sprintf(`A client's problem is '%s'.
You are a strategic foresight specialist. If this problem is not addressed within the next 6-12 months, predict one significant, negative business outcome. Describe it in 2-3 sentences and name the earliest warning sign to watch for.`, problem)
}
