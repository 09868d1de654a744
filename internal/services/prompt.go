package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSummaryPrompt creates the prompt for compressing a job description
// into a single requirements paragraph.
func (pb *PromptBuilder) BuildSummaryPrompt(jobDescription string) string {
	return fmt.Sprintf(`Create a single, concise paragraph that summarizes ALL key requirements and skills from this job description.
Focus on technical skills, qualifications, experience levels, and essential requirements.
Include specific technologies, tools, education, and experience requirements.

Format: Return ONLY the summary paragraph, nothing else.

Example output:
"Looking for a Python developer with FastAPI experience, AWS cloud knowledge, and machine learning skills. Requires Bachelor's in Computer Science or related field, familiarity with Git version control, and REST APIs. Must have basic understanding of Docker, CI/CD pipelines, and database systems. Fresh graduates with 0-2 years experience and strong problem-solving skills are welcome."

Job Description to analyze:
%s`, jobDescription)
}

// BuildValidationPrompt creates the fixed classification prompt deciding
// whether extracted text is a resume. The model must answer only 'true' or
// 'false'.
func (pb *PromptBuilder) BuildValidationPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text and determine if it is from a resume/CV document.
A resume typically contains:
- Personal information (name, contact details)
- Professional summary or objective
- Work experience with dates and descriptions
- Education details
- Skills and qualifications
- Projects or achievements

Return ONLY 'true' if it's a resume, 'false' if it's not.
Do not include any explanations or additional text.
Go through the text thoroughly and then decide if it's a resume or not. Don't be too quick to decide it in the middle of the text itself.

Text to analyze:
%s`, text)
}

// BuildInvitationEmail returns the subject and plain-text body of the
// interview invitation.
func (pb *PromptBuilder) BuildInvitationEmail(score float64, bookingURL string) (subject, body string) {
	subject = "Interview Invitation - Next Steps"
	body = fmt.Sprintf(`Congratulations! Based on your application review (Match Score: %.2f%%), we would like to invite you for an interview.
Once you select a time slot, you will receive a detailed confirmation email with meeting instructions.
Please schedule your interview using the link below:
%s
Best regards,
The Recruiting Team`, score, bookingURL)
	return subject, body
}
