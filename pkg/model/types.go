package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
)

// IsNumeric reports whether values of this type are converted to numbers
// before range and sign rules run.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeInteger || t == FieldTypeNumber
}

const (
	ValidationRuleRequired       = "required"
	ValidationRuleRequiredMarked = "requiredMarked"
	ValidationRuleMinLength      = "minLength"
	ValidationRuleRange          = "range"
	ValidationRuleMin            = "min"
	ValidationRuleEqual          = "equal"
)

// ValidationRule describes one entry of a form's ordered rule list. Use the
// ValidationRule* constants for Kind. Numeric thresholds live in Params
// ("min", "max") as strings to keep definitions and JSON snapshots stable.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Message string            `json:"message" yaml:"message"`
	Fields  []string          `json:"fields,omitempty" yaml:"fields,omitempty"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Input       string            `json:"input,omitempty" yaml:"input,omitempty"`
	Type        FieldType         `json:"type" yaml:"type"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool              `json:"required" yaml:"required"`
	Trim        bool              `json:"trim" yaml:"trim"`
	Column      int               `json:"column,omitempty" yaml:"column,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// InputName returns the submitted input name, defaulting to Name.
func (f Field) InputName() string {
	if f.Input != "" {
		return f.Input
	}
	return f.Name
}

// IsSecret reports whether the field value must not be echoed back.
func (f Field) IsSecret() bool {
	return f.Format == "password"
}

// FormModel is the top-level representation the flow engine and the views
// consume.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Action      string            `json:"action,omitempty" yaml:"action,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	SubmitLabel string            `json:"submitLabel" yaml:"submitLabel"`
	SubmitStyle string            `json:"submitStyle,omitempty" yaml:"submitStyle,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Rules       []ValidationRule  `json:"rules,omitempty" yaml:"rules,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FieldNames returns the field names in declaration order.
func (m FormModel) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Columns groups fields by their Column index, preserving order. Fields
// without a column land in the first one.
func (m FormModel) Columns() [][]Field {
	var columns [][]Field
	for _, field := range m.Fields {
		idx := field.Column - 1
		if idx < 0 {
			idx = 0
		}
		for len(columns) <= idx {
			columns = append(columns, nil)
		}
		columns[idx] = append(columns[idx], field)
	}
	return columns
}
