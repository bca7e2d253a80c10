package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	leaddomain "estate_portal_backend/internal/leads/domain"
	"estate_portal_backend/internal/leads/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AgentDirectory reads agent contact cards from the agents table. Agent
// accounts are provisioned outside this service.
type AgentDirectory struct {
	pool *pgxpool.Pool
}

// NewAgentDirectory creates a new agent directory.
func NewAgentDirectory(pool *pgxpool.Pool) *AgentDirectory {
	return &AgentDirectory{pool: pool}
}

// AgentSnapshot returns the agent's current contact card.
func (d *AgentDirectory) AgentSnapshot(ctx context.Context, agentID uuid.UUID) (leaddomain.AgentSnapshot, bool, error) {
	var name, email string
	var phone *string
	err := d.pool.QueryRow(ctx, `SELECT name, email, phone FROM agents WHERE id = $1`, agentID).
		Scan(&name, &email, &phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return leaddomain.AgentSnapshot{}, false, nil
	}
	if err != nil {
		return leaddomain.AgentSnapshot{}, false, fmt.Errorf("agent directory: %w", err)
	}
	return buildSnapshot(name, email, phone), true, nil
}

func buildSnapshot(name, email string, phone *string) leaddomain.AgentSnapshot {
	snapshot := leaddomain.AgentSnapshot{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if snapshot.Name == "" {
		snapshot.Name = deriveNameFromEmail(snapshot.Email)
	}
	if phone != nil {
		snapshot.Phone = strings.TrimSpace(*phone)
	}
	return snapshot
}

// deriveNameFromEmail turns "jane.doe@x" into "Jane Doe".
func deriveNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Compile-time check that AgentDirectory implements ports.AgentDirectory
var _ ports.AgentDirectory = (*AgentDirectory)(nil)
