package service

import (
	"fmt"
	"time"
)

func signInEmailTemplate(signInURL, appName string, expiry time.Duration) (string, string) {
	subject := fmt.Sprintf("Sign in to %s", appName)
	body := fmt.Sprintf(`Click this link to open your golf journal:
%s

This link expires in %s and can only be used once.

If you didn't request this, ignore this email.

Best,
The %s Team`, signInURL, expiryText(expiry), appName)

	return subject, body
}

func expiryText(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(d / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
