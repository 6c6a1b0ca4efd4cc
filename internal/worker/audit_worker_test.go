package worker

import (
	"context"
	"reflect"
	"testing"
	"time"

	"fundboard/internal/amqp"
)

func TestAuditWorker_HandleQueryEvent(t *testing.T) {
	w := NewAuditWorker(2)
	ctx := context.Background()

	events := []*amqp.QueryEvent{
		amqp.NewQueryEvent(amqp.QueryOverall, "", true),
		amqp.NewQueryEvent(amqp.QueryStartup, "Ola", true),
		amqp.NewQueryEvent(amqp.QueryStartup, "Ola", true),
		amqp.NewQueryEvent(amqp.QueryStartup, "Flipkart", true),
		amqp.NewQueryEvent(amqp.QueryStartup, "Byju", true),
		amqp.NewQueryEvent(amqp.QueryStartup, "Ghost", false),
		amqp.NewQueryEvent(amqp.QueryInvestor, "Accel", true),
		amqp.NewQueryEvent("bogus", "x", true),
	}
	for _, e := range events {
		if err := w.HandleQueryEvent(ctx, e); err != nil {
			t.Fatalf("HandleQueryEvent(%+v) error = %v", e, err)
		}
	}

	s := w.Summary()
	if s.Events != 7 || s.Overall != 1 || s.NotFound != 1 {
		t.Errorf("Summary() = %+v", s)
	}
	wantStartups := []SubjectCount{{"Ola", 2}, {"Byju", 1}}
	if !reflect.DeepEqual(s.Startups, wantStartups) {
		t.Errorf("Startups = %+v, want %+v", s.Startups, wantStartups)
	}
	if !reflect.DeepEqual(s.Investors, []SubjectCount{{"Accel", 1}}) {
		t.Errorf("Investors = %+v", s.Investors)
	}
}

func TestAuditWorker_RunReportsStops(t *testing.T) {
	w := NewAuditWorker(0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.RunReports(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunReports did not return after cancel")
	}
}
