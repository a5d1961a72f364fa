package core

// OperationKind identifies what a single step of a migration plan does.
type OperationKind string

const (
	OperationSQL      OperationKind = "SQL"
	OperationNote     OperationKind = "NOTE"
	OperationBreaking OperationKind = "BREAKING"
)

// OperationRisk is used to identify the risk level of an operation.
type OperationRisk string

const (
	RiskInfo     OperationRisk = "INFO"
	RiskWarning  OperationRisk = "WARNING"
	RiskBreaking OperationRisk = "BREAKING"
)

// Operation is one rendered statement of a migration plan together with the
// statement that reverses it, when one is known.
type Operation struct {
	Kind OperationKind `json:"kind"`

	// Source is the migration file stem the operation was built from.
	Source string `json:"source,omitempty"`

	SQL         string `json:"sql,omitempty"`
	RollbackSQL string `json:"rollbackSql,omitempty"`

	Risk OperationRisk `json:"risk,omitempty"`
}
