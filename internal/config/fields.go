package config

// FieldType classifies the kind of value a config field accepts.
type FieldType string

const (
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
	// FieldFreetext accepts arbitrary string input.
	FieldFreetext FieldType = "freetext"
)

// FieldOption describes a single selectable value for a field.
type FieldOption struct {
	Value       string
	Description string
}

// FieldDef describes a single config field's type, default, and valid options.
type FieldDef struct {
	Key      string
	Type     FieldType
	Default  string
	Required bool
	Options  []FieldOption
}

// fields is the canonical ordered registry of config fields, in file order.
var fields = []FieldDef{
	{Key: "host.package", Type: FieldFreetext, Default: "simplesamlphp/simplesamlphp", Required: true},
	{Key: "host.modules_dir", Type: FieldFreetext, Default: "modules", Required: true},
	{Key: "modules.type", Type: FieldFreetext, Default: "simplesamlphp-module", Required: true},
	{Key: "composer.vendor_dir", Type: FieldFreetext},
	{
		Key:      "sync.on_error",
		Type:     FieldEnum,
		Default:  OnErrorAbort,
		Required: true,
		Options: []FieldOption{
			{Value: OnErrorAbort, Description: "stop at the first module that fails"},
			{Value: OnErrorContinue, Description: "install every module and report all failures"},
		},
	},
	{
		Key:      "output.color",
		Type:     FieldEnum,
		Default:  ColorAuto,
		Required: true,
		Options: []FieldOption{
			{Value: ColorAuto, Description: "color when stdout is a terminal"},
			{Value: ColorAlways},
			{Value: ColorNever},
		},
	},
}

var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Key] = i
	}
	return index
}

// LookupField returns the field definition for key.
func LookupField(key string) (FieldDef, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return copyFieldDef(fields[i]), true
}

// Fields returns a copy of all registered field definitions in catalog order.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		out[i] = copyFieldDef(f)
	}
	return out
}

// FieldOptionValues returns the option values for a field as a plain string slice.
// Returns nil when the key is not in the catalog or has no options.
func FieldOptionValues(key string) []string {
	f, ok := LookupField(key)
	if !ok || len(f.Options) == 0 {
		return nil
	}
	values := make([]string, len(f.Options))
	for i, opt := range f.Options {
		values[i] = opt.Value
	}
	return values
}

func isValidOption(key string, value string) bool {
	for _, option := range FieldOptionValues(key) {
		if option == value {
			return true
		}
	}
	return false
}

func copyFieldDef(f FieldDef) FieldDef {
	if f.Options != nil {
		opts := make([]FieldOption, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}
