package mail

import "fmt"

// Validate applies the driver-independent checks to a request.
// The first failing rule is returned as a *ValidationError tagged with driverName.
func Validate(req *SendMailRequest, driverName string) error {
	fail := func(detail string) error {
		return NewValidationError(driverName, detail)
	}

	if req == nil || req.From.Email == "" {
		return fail("'from' required")
	}

	if len(req.To) == 0 {
		return fail("'to' required and cannot be empty")
	}

	if req.TemplateID == "" {
		if req.Subject == "" {
			return fail("'subject' is required if template not being used")
		}
		if req.HTML == "" && req.Text == "" {
			return fail("either 'text' or 'html' is required if template not being used")
		}
	}

	for i, a := range req.Attachments {
		if a.Disposition == "" {
			return fail(fmt.Sprintf("'disposition' missing from attachment[%d]", i))
		}
		if a.Disposition != DispositionInline && a.Disposition != DispositionAttachment {
			return fail(fmt.Sprintf("'disposition' can only be 'attachment' or 'inline'. attachment[%d]", i))
		}
		if a.IsInline() && a.CID == "" {
			return fail(fmt.Sprintf("'cid' is mandatory to send attachments 'inline'. attachment[%d]", i))
		}
		// nil content is neither bytes nor a string; hosted files carry no bytes.
		if a.Content == nil && !a.IsHosted() {
			return fail(fmt.Sprintf("'content' can only be either buffer or string. attachment[%d]", i))
		}
	}

	return nil
}
