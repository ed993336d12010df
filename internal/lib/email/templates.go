package email

// Template is a string-based enum naming email templates under templates/.
type Template string

const (
	// TemplateWelcome greets a newly synced user.
	TemplateWelcome Template = "welcome"

	// TemplateInterest notifies a post owner of a new interest.
	TemplateInterest Template = "interest"

	// TemplateDealCreated notifies the selected user that the owner picked
	// them.
	TemplateDealCreated Template = "deal_created"

	// TemplateDealCompleted confirms a completed deal to both parties.
	TemplateDealCompleted Template = "deal_completed"
)
