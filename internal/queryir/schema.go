package queryir

// Kind is the type of value a column holds.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "string"
}

// Table describes a journal table a query may read.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    map[string]Kind
}

// Tables lists the journal tables, keyed by name.
var Tables = map[string]Table{
	"messages": {
		Name:       "messages",
		PrimaryKey: "id",
		Columns: map[string]Kind{
			"id":             KindString,
			"session":        KindString,
			"key_id":         KindString,
			"operation":      KindString,
			"input":          KindString,
			"output":         KindString,
			"seq":            KindInt,
			"windows":        KindString,
			"engine_version": KindString,
			"ir_version":     KindString,
		},
	},
	"machine_keys": {
		Name:       "machine_keys",
		PrimaryKey: "key_id",
		Columns: map[string]Kind{
			"key_id": KindString,
			"name":   KindString,
			"spec":   KindString,
		},
	},
}

// LookupTable returns the named table.
func LookupTable(name string) (Table, bool) {
	t, ok := Tables[name]
	return t, ok
}
