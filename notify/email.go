package notify

import (
	"context"
	"fmt"

	"localmart/models"
)

// EmailSender is the slice of the email service this package needs.
type EmailSender interface {
	SendEmail(toEmail, subject, htmlContent string) error
}

// EmailNotifier emails the shop owner about the decision.
type EmailNotifier struct {
	sender EmailSender
}

func NewEmailNotifier(sender EmailSender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

func (e *EmailNotifier) Notify(_ context.Context, kind Kind, shop *models.Shop, owner *models.User, reason string) Result {
	var subject, body string
	switch kind {
	case KindShopApproved:
		subject = "Your shop has been approved"
		body = fmt.Sprintf(
			"<strong>Dear %s,</strong><br><br>Good news! Your shop <strong>%s</strong> has been approved and is now visible to shoppers.<br><br>You can start managing orders right away.",
			owner.Name, shop.Name,
		)
	case KindShopRejected:
		subject = "Your shop application was not approved"
		body = fmt.Sprintf(
			"<strong>Dear %s,</strong><br><br>Unfortunately your shop <strong>%s</strong> was not approved.<br><br>Reason: %s<br><br>You can update your shop details and resubmit at any time.",
			owner.Name, shop.Name, reason,
		)
	default:
		return Result{Success: false, Err: fmt.Errorf("unknown notification kind %q", kind)}
	}

	if err := e.sender.SendEmail(owner.Email, subject, body); err != nil {
		return Result{Success: false, Err: err}
	}
	return Result{Success: true}
}
