package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, itemTitle string) error {
	body := fmt.Sprintf("Hello,\n\n%s has requested to rent your item \"%s\".\n\nOpen CampusRent to review the request.\n\nThe CampusRent Team", renterName, itemTitle)
	return s.send(ownerEmail, fmt.Sprintf("New rental request for %s", itemTitle), body)
}

func (s *emailService) SendRentalModifiedNotification(ctx context.Context, email, modifierName, itemTitle string) error {
	body := fmt.Sprintf("Hello,\n\n%s proposed new terms for the rental of \"%s\".\n\nOpen CampusRent to review the updated dates and meeting details.\n\nThe CampusRent Team", modifierName, itemTitle)
	return s.send(email, fmt.Sprintf("Rental terms updated for %s", itemTitle), body)
}

func (s *emailService) SendRentalDecisionNotification(ctx context.Context, renterEmail, itemTitle, ownerName string, accepted bool) error {
	decision := "rejected"
	if accepted {
		decision = "accepted"
	}
	body := fmt.Sprintf("Hello,\n\n%s has %s your rental request for \"%s\".\n\nThe CampusRent Team", ownerName, decision, itemTitle)
	return s.send(renterEmail, fmt.Sprintf("Your rental request was %s", decision), body)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, email, itemTitle, endDate string) error {
	body := fmt.Sprintf("Hello,\n\nThe rental period for \"%s\" ended on %s. Please arrange the return with the other party.\n\nThe CampusRent Team", itemTitle, endDate)
	return s.send(email, fmt.Sprintf("Return reminder for %s", itemTitle), body)
}
