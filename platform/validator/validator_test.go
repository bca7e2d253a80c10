package validator

import "testing"

type tourSlot struct {
	Date string `validate:"required,calendar_date"`
	Time string `validate:"required,clock_time"`
}

type inquiry struct {
	Source string `validate:"omitempty,lead_source"`
}

func TestCalendarAndClockTags(t *testing.T) {
	val := New()

	if err := val.Struct(tourSlot{Date: "2026-10-20", Time: "14:30"}); err != nil {
		t.Fatalf("expected valid slot, got %v", err)
	}
	bad := []tourSlot{
		{Date: "20-10-2026", Time: "14:30"},
		{Date: "2026-10-20", Time: "24:00"},
		{Date: "2026-02-30", Time: "09:00"},
	}
	for _, slot := range bad {
		if err := val.Struct(slot); err == nil {
			t.Errorf("expected %+v to fail validation", slot)
		}
	}
}

func TestRegisterOneOfAcceptsValuesWithSpaces(t *testing.T) {
	val := New()
	if err := val.RegisterOneOf("lead_source", []string{"Website Form", "Google Ads"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := val.Struct(inquiry{Source: "Google Ads"}); err != nil {
		t.Fatalf("expected Google Ads to be accepted: %v", err)
	}
	if err := val.Struct(inquiry{}); err != nil {
		t.Fatalf("expected empty source to be accepted: %v", err)
	}
	if err := val.Struct(inquiry{Source: "Carrier Pigeon"}); err == nil {
		t.Fatalf("expected unknown source to be rejected")
	}
}
