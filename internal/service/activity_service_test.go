package service

import (
	"testing"
	"time"
)

func TestRecordReadingValidatesScale(t *testing.T) {
	readings := &fakeReadingStore{}
	svc := NewActivityService(readings, &fakeSessionStore{})

	activity, err := svc.RecordReading(1, "article-1", "example.org", -2)
	if err != nil {
		t.Fatalf("RecordReading: %v", err)
	}
	if activity.BiasRating != -2 || len(readings.readings) != 1 {
		t.Errorf("activity = %+v, want one stored reading at -2", activity)
	}

	if _, err := svc.RecordReading(1, "article-2", "example.org", 3.5); err == nil {
		t.Error("rating 3.5 accepted, want rejection outside -3..+3")
	}
	if len(readings.readings) != 1 {
		t.Errorf("stored %d readings after rejection, want 1", len(readings.readings))
	}
}

func TestStartSessionDefaultsToNow(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := NewActivityService(&fakeReadingStore{}, sessions)

	before := time.Now().UTC()
	session, err := svc.StartSession(1, time.Time{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.SessionStart.Before(before) {
		t.Errorf("SessionStart = %v, want defaulted to now", session.SessionStart)
	}

	explicit := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	session, err = svc.StartSession(1, explicit)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !session.SessionStart.Equal(explicit) {
		t.Errorf("SessionStart = %v, want %v", session.SessionStart, explicit)
	}
}
