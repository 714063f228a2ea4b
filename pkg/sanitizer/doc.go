// Package sanitizer turns HTML mail bodies into plain text.
//
// PlainText is used to render previews of HTML messages in terminals and
// logs. It relies on the bluemonday strict policy, so scripts, styles and
// event handlers never survive.
//
//	text := sanitizer.PlainText("<p>Hello <b>world</b></p>") // "Hello world"
package sanitizer
