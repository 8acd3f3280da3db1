package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"anchor-backoffice/app/config"
)

// SendMail dispatches an HTML email, optionally with one attachment, via the
// configured SMTP relay.
func SendMail(smtpCfg config.SMTPConfig, to []string, subject, htmlBody string,
	attachmentName string, attachment []byte) error {

	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	boundary := "anchor-mail-boundary"
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", smtpCfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if attachment == nil {
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		buf.WriteString(htmlBody)
	} else {
		fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		buf.WriteString(htmlBody)
		buf.WriteString("\r\n")

		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		buf.WriteString("Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet\r\n")
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachmentName)

		encoded := base64.StdEncoding.EncodeToString(attachment)
		// RFC 2045 line length limit
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")

		fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	}

	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	auth := smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	return smtp.SendMail(addr, auth, smtpCfg.From, to, buf.Bytes())
}
