// Package unmail sends email through one interchangeable vendor driver.
//
// Callers build a single canonical mail.SendMailRequest and the configured
// driver translates it into the vendor's HTTP API call, returning a
// normalized mail.SendMailResponse. Switching vendors means switching the
// driver, nothing else.
//
// # Quick Start
//
//	d, err := sendgrid.New(sendgrid.Config{APIKey: os.Getenv("SENDGRID_API_KEY")})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	u, err := unmail.Make(ctx, d, unmail.WithLogger(logger.New()))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := u.SendMail(ctx, &mail.SendMailRequest{
//		From:    mail.Identity{Email: "team@example.com", Name: "Team"},
//		To:      []mail.Identity{{Email: "user@example.com"}},
//		Subject: "Welcome",
//		HTML:    "<p>Hello!</p>",
//	})
//
// # Outcomes
//
// A send ends in one of three ways:
//
//   - err matches mail.ErrValidation: the request was rejected before any
//     vendor code ran.
//   - err matches mail.ErrProcessing: the driver could not express the
//     request for its vendor, for example an unsupported attachment.
//   - err is nil: resp.Success tells whether the vendor accepted the mail.
//     Failed responses carry the vendor status in resp.Code, the cause in
//     resp.Error and usually the payload that was sent in resp.Payload.
//
// # Payload Modifier
//
// Every driver accepts one modifier applied to the vendor payload right
// before transmission:
//
//	u.Driver().SetPayloadModifier(func(p driver.Payload) driver.Payload {
//		p["ip_pool_name"] = "transactional"
//		return p
//	})
//
// # Drivers
//
// Vendor adapters live under pkg/driver: sendgrid, mailjet, postmark,
// resend, mailchimp, mailersend, plus mocker for tests and local runs.
package unmail
