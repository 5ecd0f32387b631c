package reactive

// Op identifies the fundamental operation a Track or Trigger call
// describes. The read kinds (get, has, iterate) appear in Track calls, the
// write kinds (set, add, delete, clear) in Trigger calls.
type Op uint8

const (
	OpGet Op = iota
	OpHas
	OpIterate
	OpSet
	OpAdd
	OpDelete
	OpClear
)

var opNames = [...]string{"get", "has", "iterate", "set", "add", "delete", "clear"}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "unknown"
}

// IsWrite reports whether op mutates its target.
func (op Op) IsWrite() bool { return op >= OpSet }

// SpecialKey is the type of the reserved keys. The distinct type keeps them
// apart from application keys: the string key "iterate" and IterateKey
// address different subscriber sets.
type SpecialKey string

const (
	// IterateKey stands for the shape of a record or keyed collection.
	// Enumeration subscribes here; add and delete operations notify here.
	IterateKey SpecialKey = "iterate"

	// LengthKey is the structural key of ordered lists. Length reads and
	// enumeration subscribe here; element add and delete notify here.
	LengthKey SpecialKey = "length"

	// ValueKey is the single key used by value wrappers (Ref, Memo).
	ValueKey SpecialKey = "value"
)

// targetKind classifies graph targets; it selects the structural key and
// the labels used in snapshots.
type targetKind uint8

const (
	kindRecord targetKind = iota
	kindList
	kindKeyed
	kindValue
)

var kindNames = [...]string{"record", "list", "keyed", "value"}

func (k targetKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// structuralKey returns the key notified when target membership changes.
func (k targetKind) structuralKey() SpecialKey {
	if k == kindList {
		return LengthKey
	}
	return IterateKey
}
