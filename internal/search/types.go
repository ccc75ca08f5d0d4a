package search

// Kind names the catalog a document came from.
type Kind string

const (
	KindFeature  Kind = "feature"
	KindFunction Kind = "function"
	KindSensor   Kind = "sensor"
	KindSoC      Kind = "soc"
)

// rank orders kinds in results: what users select first, what they buy last.
func (k Kind) rank() int {
	switch k {
	case KindFeature:
		return 0
	case KindFunction:
		return 1
	case KindSensor:
		return 2
	case KindSoC:
		return 3
	}
	return 4
}

// Doc is the searchable text of one catalog entry.
type Doc struct {
	Kind        Kind
	ID          string
	Name        string
	Description string
	Keywords    string // vendor, tier, category
}

// Result is one matched document.
type Result struct {
	Doc   Doc
	Score float64
	Why   string
}
