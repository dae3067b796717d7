package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

func BuildWelcomeEmail(sender string, recipient string, name string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", "Welcome to Storefront")
	m.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy shopping!", name))
	return m
}

func SendEmail(message *gomail.Message, sender string, password string, smtpServer string, smtpPort int) error {
	d := gomail.NewDialer(smtpServer, smtpPort, sender, password)

	if err := d.DialAndSend(message); err != nil {
		return err
	}

	return nil
}
