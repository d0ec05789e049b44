package emergency_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/internal/emergency"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository/mock"
	"github.com/garnizeh/hersafety/pkg/sms"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*sms.Message
	fail map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, msg *sms.Message) (*sms.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return nil, errors.New("undeliverable")
	}
	f.sent = append(f.sent, msg)
	return &sms.Result{MessageID: "m", Status: "sent"}, nil
}

func setup(t *testing.T) (*emergency.Service, *mock.Mocks, *fakeSender, int64) {
	t.Helper()
	m := mock.NewMocks()
	uid, _ := m.Users.CreateUser(context.Background(), &models.User{Name: "Asha", Email: "asha@example.com"})
	fs := &fakeSender{fail: map[string]bool{}}
	return emergency.New(m.Contacts, m.SOS, m.Users, fs, "HerSafety", nil), m, fs, uid
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in       string
		lat, lng float64
		ok       bool
	}{
		{"12.9716,77.5946", 12.9716, 77.5946, true},
		{" -33.86 , 151.21 ", -33.86, 151.21, true},
		{"90,180", 90, 180, true},
		{"91,0", 0, 0, false},
		{"0,-181", 0, 0, false},
		{"abc,1", 0, 0, false},
		{"12.97", 0, 0, false},
		{"1,2,3", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		lat, lng, err := emergency.ParseLocation(tt.in)
		if tt.ok {
			if err != nil || lat != tt.lat || lng != tt.lng {
				t.Errorf("ParseLocation(%q) = %v, %v, %v", tt.in, lat, lng, err)
			}
			continue
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("ParseLocation(%q): expected validation error, got %v", tt.in, err)
		}
	}
}

func TestSendSOS_NotifiesEveryContact(t *testing.T) {
	svc, m, fs, uid := setup(t)
	ctx := context.Background()
	for _, phone := range []string{"+919800000001", "+919800000002"} {
		if _, err := svc.AddContact(ctx, uid, "Contact", phone, "friend"); err != nil {
			t.Fatalf("AddContact: %v", err)
		}
	}

	res, err := svc.SendSOS(ctx, uid, "12.9716,77.5946")
	if err != nil {
		t.Fatalf("SendSOS: %v", err)
	}
	if res.Notified != 2 || res.Failed != 0 || res.AlertID == 0 {
		t.Fatalf("unexpected result %#v", res)
	}
	if len(fs.sent) != 2 {
		t.Fatalf("expected 2 sms, got %d", len(fs.sent))
	}
	if !strings.Contains(fs.sent[0].Body, "Asha") || !strings.Contains(fs.sent[0].Body, "12.971600,77.594600") {
		t.Fatalf("unexpected body %q", fs.sent[0].Body)
	}
	if len(m.SOS.Alerts) != 1 || m.SOS.Alerts[0].Notified != 2 {
		t.Fatalf("expected recorded alert, got %#v", m.SOS.Alerts)
	}
}

func TestSendSOS_PartialAndTotalFailure(t *testing.T) {
	svc, m, fs, uid := setup(t)
	ctx := context.Background()
	_, _ = svc.AddContact(ctx, uid, "A", "+919800000001", "")
	_, _ = svc.AddContact(ctx, uid, "B", "+919800000002", "")

	fs.fail["+919800000001"] = true
	res, err := svc.SendSOS(ctx, uid, "12.97,77.59")
	if err != nil {
		t.Fatalf("partial failure should still succeed: %v", err)
	}
	if res.Notified != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result %#v", res)
	}

	fs.fail["+919800000002"] = true
	if _, err := svc.SendSOS(ctx, uid, "12.97,77.59"); !apperr.Is(err, apperr.KindServer) {
		t.Fatalf("expected server error when nobody is reachable, got %v", err)
	}
	// the failed attempt is still audited
	if len(m.SOS.Alerts) != 2 || m.SOS.Alerts[1].Failed != 2 {
		t.Fatalf("expected failed alert recorded, got %#v", m.SOS.Alerts)
	}
}

func TestSendSOS_NoContacts(t *testing.T) {
	svc, _, fs, uid := setup(t)
	res, err := svc.SendSOS(context.Background(), uid, "12.97,77.59")
	if err != nil {
		t.Fatalf("SendSOS: %v", err)
	}
	if res.Notified != 0 || len(fs.sent) != 0 {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestSendSOS_InvalidLocation(t *testing.T) {
	svc, _, fs, uid := setup(t)
	_, _ = svc.AddContact(context.Background(), uid, "A", "+919800000001", "")
	if _, err := svc.SendSOS(context.Background(), uid, "999,999"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(fs.sent) != 0 {
		t.Fatalf("no sms should be sent for invalid location")
	}
}

func TestContacts(t *testing.T) {
	svc, m, _, uid := setup(t)
	ctx := context.Background()
	other, _ := m.Users.CreateUser(ctx, &models.User{Name: "Bina", Email: "bina@example.com"})

	if _, err := svc.AddContact(ctx, uid, "", "12", ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, err := svc.AddContact(ctx, uid, " Mum ", "+91 98450 12345", "mother")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if c.Name != "Mum" || c.ID == 0 {
		t.Fatalf("unexpected contact %#v", c)
	}

	list, _ := svc.ListContacts(ctx, uid)
	if len(list) != 1 {
		t.Fatalf("expected one contact, got %d", len(list))
	}
	empty, _ := svc.ListContacts(ctx, other)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	if err := svc.DeleteContact(ctx, other, c.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign contact, got %v", err)
	}
	if err := svc.DeleteContact(ctx, uid, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
}
