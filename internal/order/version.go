package order

// Version constants for the record schema and engine.
const (
	// RecordVersion is the journal record schema version.
	RecordVersion = "1"

	// EngineVersion is the chit engine version.
	EngineVersion = "0.1.0"
)
