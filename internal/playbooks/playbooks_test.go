package playbooks_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/enginemodels"
	"github.com/atlas-desktop/trading-backend/internal/playbooks"
)

func TestGetPlaybookKnownEventTypes(t *testing.T) {
	lib := playbooks.NewLibrary(zap.NewNop())

	for _, et := range []enginemodels.EventType{
		enginemodels.EventTypeFOMC,
		enginemodels.EventTypeCPI,
		enginemodels.EventTypeNFP,
		enginemodels.EventTypeEarnings,
	} {
		pb, err := lib.GetPlaybook(et)
		if err != nil {
			t.Fatalf("GetPlaybook(%s) failed: %v", et, err)
		}
		if pb.EventType != et {
			t.Fatalf("expected event type %s, got %s", et, pb.EventType)
		}
		if len(pb.Phases) != 3 {
			t.Fatalf("expected 3 phases for %s, got %d", et, len(pb.Phases))
		}
	}
}

func TestGetPlaybookUnknownEventType(t *testing.T) {
	lib := playbooks.NewLibrary(zap.NewNop())
	if _, err := lib.GetPlaybook(enginemodels.EventTypeNone); err == nil {
		t.Fatal("expected error for event type with no playbook")
	}
}

func TestGetZeroDTEDayRoundTrip(t *testing.T) {
	lib := playbooks.NewLibrary(zap.NewNop())

	zdte := lib.GetZeroDTE()
	if len(zdte.Days) != 5 {
		t.Fatalf("expected 5 weekday entries, got %d", len(zdte.Days))
	}

	for _, day := range []enginemodels.DayOfWeek{
		enginemodels.Monday, enginemodels.Tuesday, enginemodels.Wednesday,
		enginemodels.Thursday, enginemodels.Friday,
	} {
		info, err := lib.GetZeroDTEDay(day)
		if err != nil {
			t.Fatalf("GetZeroDTEDay(%s) failed: %v", day, err)
		}
		if info.Day != day {
			t.Fatalf("expected day %s, got %s", day, info.Day)
		}
	}
}

func TestGetZeroDTEDayUnknown(t *testing.T) {
	lib := playbooks.NewLibrary(zap.NewNop())
	if _, err := lib.GetZeroDTEDay("Sunday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}
