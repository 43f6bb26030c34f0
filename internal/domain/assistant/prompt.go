package assistant

import (
	"fmt"
	"strings"
)

// systemPrompt pins the assistant's role and its non-medical-advice
// constraints. Kept as one literal so the whole contract is reviewable in
// one place.
const systemPrompt = `You are a helpful, empathetic assistant for patients navigating the kidney transplant journey.
Your role is to:
- Provide clear, empathetic guidance about where they are in the transplant process
- Explain what steps come next based on their current status and pathway stage
- Answer questions about their transplant journey using their personal data
- Help them understand their checklist progress and what's needed to move forward
- Be encouraging and supportive while being realistic about the process

IMPORTANT CONSTRAINTS:
- You are NOT providing medical advice, diagnoses, or treatment recommendations
- Always refer patients to their healthcare providers (nephrologist, transplant team) for medical questions
- Use the patient's actual data provided in the context to personalize your responses
- Be specific about their current pathway stage and what it means
- If you don't have information about something, say so rather than guessing
- Focus on actionable next steps based on their current state
- Use plain language and avoid overly technical medical jargon when possible`

var stageDescriptions = map[string]string{
	"identification":  "Identification & Awareness - Early stage, learning about transplant options",
	"referral":        "Referral Stage - Need to obtain referral to transplant center",
	"evaluation":      "Evaluation Stage - Undergoing pre-transplant evaluation workup",
	"selection":       "Selection & Waitlisting - Evaluation mostly complete, ready for waitlist consideration",
	"transplantation": "Transplantation - On waitlist or scheduled for transplant",
	"post-transplant": "Post-Transplant - Post-transplant care and monitoring",
}

// formatContext renders the patient context as tag-delimited sections so the
// model can locate each data block reliably.
func formatContext(c *Context) string {
	var sections []string

	if c.PathwayStage != "" {
		stage := string(c.PathwayStage)
		desc, ok := stageDescriptions[stage]
		if !ok {
			desc = stage
		}
		sections = append(sections, fmt.Sprintf("<pathway_stage>\n%s - %s\n</pathway_stage>", strings.ToUpper(stage), desc))
	}

	if s := c.StatusSummary; s != nil {
		var lines []string
		if s.HasAbsolute {
			lines = append(lines, "Has ABSOLUTE contraindications (these may prevent transplant):")
			for _, q := range s.Absolute {
				lines = append(lines, "  - "+q)
			}
		} else {
			lines = append(lines, "No absolute contraindications identified")
		}
		if s.HasRelative {
			lines = append(lines, "", "Has RELATIVE contraindications (these may need to be addressed):")
			for _, q := range s.Relative {
				lines = append(lines, "  - "+q)
			}
		} else {
			lines = append(lines, "No relative contraindications identified")
		}
		sections = append(sections, "<medical_status>\n"+strings.Join(lines, "\n")+"\n</medical_status>")
	}

	if p := c.ChecklistProgress; p != nil && p.TotalItems > 0 {
		lines := []string{fmt.Sprintf("Progress: %d/%d items complete (%.1f%%)", p.CompletedCount, p.TotalItems, p.CompletionPercentage)}
		if len(p.IncompleteItems) > 0 {
			lines = append(lines, "", "Next Items to Complete:")
			for i, it := range p.IncompleteItems {
				if i == 3 {
					break
				}
				lines = append(lines, "  - "+it.Title)
				if it.Description != "" {
					lines = append(lines, "    ("+it.Description+")")
				}
			}
		}
		sections = append(sections, "<checklist_progress>\n"+strings.Join(lines, "\n")+"\n</checklist_progress>")
	}

	if r := c.ReferralInfo; r != nil {
		var lines []string
		if r.HasReferral {
			lines = append(lines, "Has referral to transplant center")
		} else {
			lines = append(lines, "Does NOT have referral yet")
		}
		if r.ReferralStatus != "" && r.ReferralStatus != "not_started" {
			lines = append(lines, "Referral process: "+string(r.ReferralStatus))
		}
		if r.HasNephrologist {
			lines = append(lines, "Has a nephrologist who can provide referral")
		}
		if r.HasDialysisCenter {
			lines = append(lines, "Has a dialysis center that can assist with referral")
		}
		sections = append(sections, "<referral_status>\n"+strings.Join(lines, "\n")+"\n</referral_status>")
	}

	if a := c.RecentActivity; a.LastItem != "" {
		lines := []string{"Last completed item: " + a.LastItem}
		if a.LastActivityDate != nil {
			lines = append(lines, "Date: "+a.LastActivityDate.Format("2006-01-02"))
		}
		if a.LastQuestionnaireDate != nil {
			lines = append(lines, "Last questionnaire submitted: "+a.LastQuestionnaireDate.Format("2006-01-02"))
		}
		sections = append(sections, "<recent_activity>\n"+strings.Join(lines, "\n")+"\n</recent_activity>")
	}

	return strings.Join(sections, "\n\n")
}

// buildUserPrompt wraps the patient's question with their context and the
// response instructions.
func buildUserPrompt(query string, c *Context) string {
	return fmt.Sprintf(`<patient_context>
%s
</patient_context>

<patient_question>
%s
</patient_question>

<instructions>
Please provide a helpful, personalized response to the patient's question using their context.
Be specific about their current stage and what they need to do next. Remember: you are not providing medical advice.
</instructions>`, formatContext(c), query)
}
