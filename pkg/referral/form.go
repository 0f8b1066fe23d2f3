package referral

import (
	"net/url"
	"strings"
)

// Priority is the handling tier requested for a referral.
type Priority string

const (
	PriorityStandard Priority = "Standard"
	PriorityUrgent   Priority = "Urgent"
)

// Label returns the Ukrainian priority line used in the letter body.
func (p Priority) Label() string {
	if p == PriorityUrgent {
		return "ТЕРМІНОВО (24 год)"
	}
	return "Стандартно (3-5 днів)"
}

// NeedsOptions is the fixed catalog of assistance categories a referral may
// request. Forms are expected to pick from this list, though BuildEmail does
// not enforce it.
var NeedsOptions = []string{
	"Юридична допомога",
	"Психосоціальна підтримка",
	"Кейс-менеджмент",
	"Грошова допомога",
	"Житло/Прихисток",
	"Гуманітарна допомога",
	"Медична допомога",
	"Захист дітей",
	"Евакуація",
}

// Form holds the data collected for one interagency referral. The form is
// composed into a letter and then discarded; nothing here is persisted.
type Form struct {
	ClientName  string
	ClientPhone string
	ClientDOB   string
	Address     string
	Priority    Priority
	Needs       []string
	Notes       string
	HasConsent  bool
}

// CaseID derives the case code for this form. See GenerateCaseID.
func (f Form) CaseID() string {
	return GenerateCaseID(f.ClientName, f.ClientDOB, f.Address)
}

// Email is a composed referral letter ready to hand to a mail client.
type Email struct {
	To      string
	Subject string
	Body    string
}

// BuildEmail composes the interagency referral letter addressed to the
// receiving organization. The body is plain text with the case code on the
// first line so the recipient can file it without opening attachments.
func BuildEmail(f Form, orgName, orgEmail string) Email {
	caseID := f.CaseID()

	var b strings.Builder
	b.WriteString("КОД СПРАВИ: " + caseID + "\n")
	b.WriteString("(Код згенеровано: перші літери ПІБ + дата народження + літера міста)\n\n")
	b.WriteString("МІЖВІДОМЧА ФОРМА ПЕРЕНАПРАВЛЕННЯ\n\n")
	b.WriteString("ДО ОРГАНІЗАЦІЇ: " + orgName + "\n")
	b.WriteString("ПРІОРИТЕТ: " + f.Priority.Label() + "\n\n")
	b.WriteString("--- ДАНІ КЛІЄНТА ---\n")
	b.WriteString("ПІБ: " + f.ClientName + "\n")
	b.WriteString("Телефон: " + f.ClientPhone + "\n")
	b.WriteString("Дата народження: " + f.ClientDOB + "\n")
	b.WriteString("Адреса: " + f.Address + "\n\n")
	b.WriteString("--- ПОТРЕБИ ---\n")
	b.WriteString(strings.Join(f.Needs, ", ") + "\n\n")
	b.WriteString("--- ДОДАТКОВІ ПРИМІТКИ ---\n")
	b.WriteString(f.Notes + "\n\n")
	b.WriteString("--- ЗГОДА ---\n")
	b.WriteString("[x] Я підтверджую, що клієнт надав згоду на передачу цієї інформації для отримання допомоги.")

	return Email{
		To:      orgEmail,
		Subject: "Запит на допомогу: " + caseID,
		Body:    b.String(),
	}
}

// MailtoURL renders the letter as a mailto: link for clients that open the
// system mail composer instead of sending directly.
func (e Email) MailtoURL() string {
	return "mailto:" + e.To +
		"?subject=" + url.QueryEscape(e.Subject) +
		"&body=" + url.QueryEscape(e.Body)
}
