// Package transport provides the JSON-over-HTTP client drivers use to reach
// vendor APIs.
//
// A Client posts a JSON body to a path relative to a fixed base URL and
// returns the status and raw body. Non-2xx responses and network failures are
// reported as *Error so drivers can normalize them:
//
//	client := transport.New("https://api.sendgrid.com",
//		transport.WithBearerToken(apiKey),
//	)
//
//	resp, err := client.Post(ctx, "/v3/mail/send", payload)
//	if err != nil {
//		var terr *transport.Error
//		if errors.As(err, &terr) {
//			// terr.Status, terr.Data
//		}
//	}
//
// The client never retries. Cancellation and timeouts come from the context
// and the underlying *http.Client.
package transport
