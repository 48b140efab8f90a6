package mdconverter

// Result holds the output of a conversion.
type Result struct {
	Markup   string    `json:"markup"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningUnknownNode    WarningType = "unknown_node"
	WarningDroppedFeature WarningType = "dropped_feature"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
