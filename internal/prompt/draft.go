package prompt

import "fmt"

// DraftSystem asks for HTML output directly so the post needs no markdown
// conversion before rendering.
const DraftSystem = `You are a professional AI trend analyst and technical writer. Your articles offer deep insight, clear structure and practical takeaways. Output in HTML format using appropriate <h1>, <h2>, <p>, <ul>, <li> tags. Do not use Markdown.`

// DraftVars holds variables for the draft prompt.
type DraftVars struct {
	Title    string
	Analysis string
}

// BuildDraftUser requests the long-form article from the filtered analysis.
func BuildDraftUser(vars DraftVars) string {
	return fmt.Sprintf(`Based on the selected content below, write a complete blog article titled "%s". The article must include: 1) an engaging introduction 2) case analysis grouped by industry or application type 3) the technical implementation and value of each case 4) future development trends 5) a conclusion. Keep the content original and insightful, and cite sources. Output in HTML format, not Markdown:

%s`, vars.Title, vars.Analysis)
}
