package mode

// Mode selects which engines take part in a search.
type Mode string

// Search mode constants.
const (
	// Hybrid fuses lexical and vector results.
	Hybrid   Mode = "hybrid"
	Semantic Mode = "semantic"
	Keyword  Mode = "keyword"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Semantic || m == Keyword
}

// UsesLexical reports whether the lexical engine runs in this mode.
func (m Mode) UsesLexical() bool { return m == Hybrid || m == Keyword }

// UsesVector reports whether the vector engine runs in this mode.
func (m Mode) UsesVector() bool { return m == Hybrid || m == Semantic }
