package repository

import (
	"reflect"
	"testing"

	"estate_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestBuildLeadListWhere(t *testing.T) {
	agentID := uuid.New()
	vocabulary := domain.VocabularyAdmin
	status := "Hot"
	priority := domain.PriorityHigh

	where, args := buildLeadListWhere(ListParams{
		AgentID:    &agentID,
		Vocabulary: &vocabulary,
		Status:     &status,
		Priority:   &priority,
	})

	wantWhere := "TRUE AND agent_id = $1 AND status_vocabulary = $2 AND status = $3 AND priority = $4"
	if where != wantWhere {
		t.Fatalf("unexpected where\n got: %s\nwant: %s", where, wantWhere)
	}
	wantArgs := []interface{}{agentID, "admin", "Hot", "high"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestBuildLeadListWhereUnfiltered(t *testing.T) {
	where, args := buildLeadListWhere(ListParams{})
	if where != "TRUE" || len(args) != 0 {
		t.Fatalf("unexpected where %q args %v", where, args)
	}
}
