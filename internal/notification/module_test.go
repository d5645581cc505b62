package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicedesk_backend/internal/events"
	platformevents "voicedesk_backend/platform/events"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	businessName string
	email        string
	err          error
}

func (f *fakeDirectory) GetNotificationEmail(context.Context, uuid.UUID) (string, string, error) {
	return f.businessName, f.email, f.err
}

type sentMail struct {
	kind    string
	toEmail string
	callID  string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, toEmail, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "verify", toEmail: toEmail})
	return nil
}

func (f *fakeSender) SendHandoffAlertEmail(_ context.Context, toEmail, _, callID, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "handoff", toEmail: toEmail, callID: callID})
	return nil
}

func (f *fakeSender) SendAppointmentReminderEmail(_ context.Context, toEmail, _, _ string, _ time.Time) error {
	f.sent = append(f.sent, sentMail{kind: "reminder", toEmail: toEmail})
	return nil
}

func newTestModule(dir *fakeDirectory, mail *fakeSender) (events.Bus, *Module) {
	bus := platformevents.NewInMemoryBus(logger.New("test"))
	return bus, NewModule(bus, dir, mail, logger.New("test"))
}

func TestHandoffOpenedSendsAlert(t *testing.T) {
	dir := &fakeDirectory{businessName: "Acme Dental", email: "owner@acme.test"}
	mail := &fakeSender{}
	bus, _ := newTestModule(dir, mail)

	err := bus.PublishSync(context.Background(), events.HandoffOpened{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  uuid.New(),
		CallID:    "call-1",
		Summary:   "Caller asked for a human",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected one alert, got %d", len(mail.sent))
	}
	if mail.sent[0].kind != "handoff" || mail.sent[0].toEmail != "owner@acme.test" || mail.sent[0].callID != "call-1" {
		t.Fatalf("unexpected alert: %+v", mail.sent[0])
	}
}

func TestHandoffOpenedNoEmailConfigured(t *testing.T) {
	dir := &fakeDirectory{businessName: "Acme Dental"}
	mail := &fakeSender{}
	bus, _ := newTestModule(dir, mail)

	err := bus.PublishSync(context.Background(), events.HandoffOpened{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  uuid.New(),
		CallID:    "call-1",
	})
	if err != nil {
		t.Fatalf("missing email must not fail the handler, got %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("expected no mail, got %+v", mail.sent)
	}
}

func TestHandoffOpenedDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("db down")}
	mail := &fakeSender{}
	bus, _ := newTestModule(dir, mail)

	err := bus.PublishSync(context.Background(), events.HandoffOpened{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  uuid.New(),
		CallID:    "call-1",
	})
	if err == nil {
		t.Fatalf("expected directory failure to surface")
	}
}

func TestReminderDueSendsReminder(t *testing.T) {
	dir := &fakeDirectory{businessName: "Acme Dental", email: "owner@acme.test"}
	mail := &fakeSender{}
	bus, _ := newTestModule(dir, mail)

	err := bus.PublishSync(context.Background(), events.AppointmentReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: uuid.New(),
		TenantID:      uuid.New(),
		CustomerName:  "Ada Lovelace",
		CustomerPhone: "+12125550142",
		StartsAt:      time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mail.sent) != 1 || mail.sent[0].kind != "reminder" {
		t.Fatalf("expected one reminder, got %+v", mail.sent)
	}
}
