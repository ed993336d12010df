package email

import "fmt"

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(to, firstName string) error {
	data := map[string]string{
		"UserFirstName": firstName,
	}

	return c.SendEmail(
		to,
		"Welcome to amEx!",
		TemplateWelcome,
		data,
	)
}

// SendInterestEmail notifies a post owner that someone is interested.
func (c *Client) SendInterestEmail(to, ownerFirstName, interestedName, postTitle string) error {
	data := map[string]string{
		"OwnerFirstName": ownerFirstName,
		"InterestedName": interestedName,
		"PostTitle":      postTitle,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("New interest in \"%s\"", postTitle),
		TemplateInterest,
		data,
	)
}

// SendDealCreatedEmail notifies the selected user that the owner picked them.
func (c *Client) SendDealCreatedEmail(to, firstName, postTitle string) error {
	data := map[string]string{
		"UserFirstName": firstName,
		"PostTitle":     postTitle,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("You were selected for \"%s\"", postTitle),
		TemplateDealCreated,
		data,
	)
}

// SendDealCompletedEmail confirms the finished deal to one party.
func (c *Client) SendDealCompletedEmail(to, firstName, postTitle string) error {
	data := map[string]string{
		"UserFirstName": firstName,
		"PostTitle":     postTitle,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("Deal completed for \"%s\"", postTitle),
		TemplateDealCompleted,
		data,
	)
}
