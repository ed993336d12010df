package email

import (
	"bytes"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every template must parse and render from the embedded FS; a typo in a
// template name or placeholder should fail here, not in a worker at 3am.
func TestEmbeddedTemplatesRender(t *testing.T) {
	data := map[string]string{
		"UserFirstName":  "Rohith",
		"OwnerFirstName": "Rohith",
		"InterestedName": "Varma",
		"PostTitle":      "Calculus textbook",
	}

	for _, name := range []Template{TemplateWelcome, TemplateInterest, TemplateDealCreated, TemplateDealCompleted} {
		t.Run(string(name), func(t *testing.T) {
			tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", name))
			require.NoError(t, err)

			var body bytes.Buffer
			require.NoError(t, tmpl.Execute(&body, data))
			assert.NotEmpty(t, body.String())
		})
	}
}

func TestTemplateEscapesHTML(t *testing.T) {
	tmpl, err := template.ParseFS(templateFS, "templates/interest.html")
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, tmpl.Execute(&body, map[string]string{
		"OwnerFirstName": "Rohith",
		"InterestedName": "<script>alert(1)</script>",
		"PostTitle":      "Book",
	}))

	assert.NotContains(t, body.String(), "<script>")
}
