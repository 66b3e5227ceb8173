package utils

import (
	"GlobalDent/config"

	"gopkg.in/gomail.v2"
)

// Mailer delivers password reset codes to operators.
type Mailer interface {
	SendResetCode(email, code string) error
}

// SMTPMailer sends mail through the SMTP server configured in SMTP_*.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.AppConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.SMTPUser,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

func (m *SMTPMailer) SendResetCode(email, code string) error {
	return m.dialer.DialAndSend(NewResetCodeMessage(m.from, email, code))
}

// NewResetCodeMessage builds the plain text and HTML reset code email.
func NewResetCodeMessage(from, to, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "GlobalDent password reset code")
	m.SetBody("text/plain", "Your GlobalDent password reset code is: "+code+"\nIt expires in 15 minutes.")

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>GlobalDent Password Reset</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				background-color: #eef6f7;
				margin: 0;
				padding: 0;
			}
			.container {
				background-color: #ffffff;
				margin: 20px auto;
				padding: 20px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
				max-width: 560px;
			}
			h1 {
				color: #333333;
			}
			p {
				color: #666666;
			}
			.code {
				font-weight: bold;
				color: #0b7285;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Password Reset Code</h1>
			<p>Your password reset code is:</p>
			<p class="code">` + code + `</p>
			<p>The code expires in 15 minutes. If you did not request a password reset, please ignore this email.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)
	return m
}
