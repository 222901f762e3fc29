package domain

import "context"

// LabelPerson is the entity label of person names.
const LabelPerson = "PERSON"

// Entity is a labeled span found in free text.
type Entity struct {
	Text  string
	Label string
}

// PersonRecognizer finds named entities in a query. Implementations are
// optional; callers treat a nil recognizer as "no entities".
type PersonRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}
