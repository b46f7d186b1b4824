package spawn

import "fmt"

// Kind identifies an enemy archetype.
type Kind uint8

const (
	KindFast    Kind = iota // light, straight-line
	KindEvasive             // corkscrew path
	KindArmored             // regenerating shield
	KindHeavy               // slow, high hull damage

	KindCount
)

// DefaultKind is spawned when a tier carries no positive weight.
const DefaultKind = KindFast

var kindNames = [KindCount]string{"fast", "evasive", "armored", "heavy"}

func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown enemy kind %q", name)
}

// Kinds returns every kind in selection order.
func Kinds() []Kind {
	out := make([]Kind, KindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
