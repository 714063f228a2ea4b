// Package mail defines the canonical, provider-agnostic send request and
// response shared by every unmail driver.
//
// Callers describe a message once with SendMailRequest. Drivers translate it
// into a vendor payload and report the outcome as a SendMailResponse, so any
// driver can be swapped for another without touching calling code.
//
// # Validation
//
// Validate runs the checks every driver applies before vendor code executes:
//
//	if err := mail.Validate(req, "sendgrid"); err != nil {
//		// *mail.ValidationError, errors.Is(err, mail.ErrValidation) == true
//	}
//
// Rules run in order and the first failure wins:
//
//   - from must have an email address
//   - to must contain at least one recipient
//   - without a template, subject and one of text/html are required
//   - each attachment needs a valid disposition, a cid when inline, and content
//
// # Errors
//
// Two raised error kinds exist:
//
//   - ValidationError: the request is malformed and was never sent
//   - ProcessingError: the request is valid but the selected vendor cannot fulfil it
//
// Vendor and transport failures are not raised. They come back as a
// SendMailResponse with Success set to false.
package mail
