package main

import (
	"fmt"
	"io"
	"strings"

	"estate_portal_backend/internal/catalog/transport"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// fixture is the import file layout.
type fixture struct {
	Agents     []agentRecord    `yaml:"agents"`
	Properties []propertyRecord `yaml:"properties"`
}

type agentRecord struct {
	ID    uuid.UUID `yaml:"id"`
	Name  string    `yaml:"name"`
	Email string    `yaml:"email"`
	Phone string    `yaml:"phone"`
}

type propertyRecord struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Address     string     `yaml:"address"`
	City        string     `yaml:"city"`
	Price       int64      `yaml:"price"`
	Beds        int        `yaml:"beds"`
	Baths       int        `yaml:"baths"`
	Area        int        `yaml:"area"`
	Status      string     `yaml:"status"`
	Type        string     `yaml:"type"`
	Amenities   []string   `yaml:"amenities"`
	Features    []string   `yaml:"features"`
	Featured    bool       `yaml:"featured"`
	AgentID     *uuid.UUID `yaml:"agentId"`
}

func decodeFixture(r io.Reader) (fixture, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return fixture{}, nil
		}
		return fixture{}, fmt.Errorf("decode fixture: %w", err)
	}

	for i, a := range f.Agents {
		if a.ID == uuid.Nil {
			return fixture{}, fmt.Errorf("agents[%d]: id is required", i)
		}
		if strings.TrimSpace(a.Email) == "" {
			return fixture{}, fmt.Errorf("agents[%d]: email is required", i)
		}
	}
	return f, nil
}

func (p propertyRecord) request() transport.PropertyRequest {
	return transport.PropertyRequest{
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Price:       p.Price,
		Beds:        p.Beds,
		Baths:       p.Baths,
		Area:        p.Area,
		Status:      p.Status,
		Type:        p.Type,
		Amenities:   p.Amenities,
		Features:    p.Features,
		Featured:    p.Featured,
		AgentID:     p.AgentID,
	}
}
