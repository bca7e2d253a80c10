package repository

import (
	"reflect"
	"testing"
	"time"

	"estate_portal_backend/internal/tours/domain"

	"github.com/google/uuid"
)

func TestBuildTourListWhere(t *testing.T) {
	clientID := uuid.New()
	status := domain.StatusScheduled
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	where, args := buildTourListWhere(ListParams{ClientID: &clientID, Status: &status, From: &from})

	wantWhere := "TRUE AND client_id = $1 AND status = $2 AND scheduled_date >= $3"
	if where != wantWhere {
		t.Fatalf("unexpected where\n got: %s\nwant: %s", where, wantWhere)
	}
	if !reflect.DeepEqual(args, []interface{}{clientID, "scheduled", from}) {
		t.Fatalf("unexpected args %#v", args)
	}
}
