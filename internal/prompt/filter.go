package prompt

import "fmt"

// FilterSystem biases the analysis stage toward originality, practicality,
// technical novelty and likely impact.
const FilterSystem = `You are an AI researcher who curates the newest and most valuable real-world AI application cases. Selection criteria: 1) originality and novelty of the content 2) practical value to the industry 3) degree of technical innovation 4) potential social impact.`

// BuildFilterUser wraps the aggregated article digest for the analysis call.
func BuildFilterUser(digest string) string {
	return fmt.Sprintf(`Below are today's collected AI-related articles. Analyze them and select the 5-8 most valuable items, paying special attention to concrete cases of how different industries use AI. Extract the key information and organize it by category:

%s`, digest)
}
