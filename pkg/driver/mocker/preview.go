package mocker

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/sanitizer"
)

const previewRule = "----------------------------------------"

func render(req *mail.SendMailRequest, resp *mail.SendMailResponse) string {
	var b strings.Builder

	outcome := "SUCCESS"
	if !resp.Success {
		outcome = "FAILURE"
	}

	fmt.Fprintln(&b, previewRule)
	fmt.Fprintf(&b, "[%s] %s (%d)\n", Type, outcome, resp.Code)
	fmt.Fprintf(&b, "From:    %s\n", req.From)
	fmt.Fprintf(&b, "To:      %s\n", joinIdentities(req.To))
	if len(req.Cc) > 0 {
		fmt.Fprintf(&b, "Cc:      %s\n", joinIdentities(req.Cc))
	}
	if len(req.Bcc) > 0 {
		fmt.Fprintf(&b, "Bcc:     %s\n", joinIdentities(req.Bcc))
	}
	if req.ReplyTo != nil {
		fmt.Fprintf(&b, "ReplyTo: %s\n", req.ReplyTo)
	}
	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	}
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:    %s\n", strings.Join(lo.Map(req.Tags, func(t mail.Tag, _ int) string {
			if t.Value == "" {
				return t.Name
			}
			return t.Name + "=" + t.Value
		}), ", "))
	}
	for _, a := range req.Attachments {
		fmt.Fprintf(&b, "Attach:  %s\n", describeAttachment(a))
	}

	fmt.Fprintln(&b)
	switch req.ContentType() {
	case mail.ContentTemplate:
		fmt.Fprintf(&b, "<template %s>\n", req.TemplateID)
		for _, td := range req.TemplateData {
			fmt.Fprintf(&b, "  %s: %v\n", td.Email, td.Data)
		}
	case mail.ContentHTML:
		fmt.Fprintln(&b, sanitizer.PlainText(req.HTML))
	default:
		fmt.Fprintln(&b, req.Text)
	}
	fmt.Fprintln(&b, previewRule)

	return b.String()
}

func describeAttachment(a mail.Attachment) string {
	desc := fmt.Sprintf("%s (%s, %s", a.Filename, a.ContentType, a.Disposition)
	if a.IsInline() {
		desc += ", cid:" + a.CID
	}
	if a.IsHosted() {
		desc += ", " + a.HostedPath
	} else {
		desc += fmt.Sprintf(", %d bytes", len(a.Content))
	}
	return desc + ")"
}

func joinIdentities(ids []mail.Identity) string {
	return strings.Join(lo.Map(ids, func(i mail.Identity, _ int) string { return i.String() }), ", ")
}
