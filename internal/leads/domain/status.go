// Package domain holds the lead lifecycle model: the two status
// vocabularies, priorities, sources and the lead record itself.
package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Vocabulary names a status enumeration. The agent pipeline and the admin
// CRM track leads with different words; values never map across.
type Vocabulary string

const (
	VocabularyAgent Vocabulary = "agent"
	VocabularyAdmin Vocabulary = "admin"
)

// ErrInvalidStatus is returned for a value outside its vocabulary, or an
// unknown vocabulary.
var ErrInvalidStatus = errors.New("invalid lead status")

// Status is a tagged lead status.
type Status struct {
	Vocabulary Vocabulary `json:"vocabulary"`
	Value      string     `json:"value"`
}

// StatusNew is the status every lead starts in.
var StatusNew = Status{Vocabulary: VocabularyAgent, Value: "New"}

// Listed in the order the dashboards present them. Lost is reachable from
// anywhere and never suggested.
var vocabularies = map[Vocabulary][]string{
	VocabularyAgent: {"New", "Contacted", "Qualified", "Hot", "Tour Scheduled", "Converted", "Lost"},
	VocabularyAdmin: {"New", "In Follow-up", "Hot", "Tour Booked", "Closed", "Lost"},
}

const statusLost = "Lost"

// Vocabularies lists known vocabularies.
func Vocabularies() []Vocabulary {
	return []Vocabulary{VocabularyAgent, VocabularyAdmin}
}

// StatusesOf returns the members of vocabulary in presentation order.
func StatusesOf(vocabulary Vocabulary) ([]string, bool) {
	values, ok := vocabularies[vocabulary]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// ParseStatus validates value against vocabulary. Matching is exact.
func ParseStatus(vocabulary, value string) (Status, error) {
	values, ok := vocabularies[Vocabulary(vocabulary)]
	if !ok {
		return Status{}, fmt.Errorf("%w: unknown vocabulary %q", ErrInvalidStatus, vocabulary)
	}
	if !slices.Contains(values, value) {
		return Status{}, fmt.Errorf("%w: %q is not a %s status", ErrInvalidStatus, value, vocabulary)
	}
	return Status{Vocabulary: Vocabulary(vocabulary), Value: value}, nil
}

// Valid reports whether s is a member of its vocabulary.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s.Vocabulary), s.Value)
	return err == nil
}

func (s Status) String() string {
	return string(s.Vocabulary) + ":" + s.Value
}

// SuggestedNext returns the status the UI offers after s. It is advisory;
// any member of the vocabulary may be set from any state.
func SuggestedNext(s Status) (Status, bool) {
	values := vocabularies[s.Vocabulary]
	idx := slices.Index(values, s.Value)
	if idx < 0 || idx+1 >= len(values) || values[idx+1] == statusLost {
		return Status{}, false
	}
	return Status{Vocabulary: s.Vocabulary, Value: values[idx+1]}, true
}
