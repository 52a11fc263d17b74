package ledger

import (
	"encoding/json"

	"golang.org/x/xerrors"
)

// TraceRecord is the exportable form of one shuffle trace entry: the
// locking player, the hash commitment over their post-lock deck
// snapshot, the marshaled snapshot points themselves, and the opaque
// remask proof. Carrying the full snapshot lets an external verifier
// re-run the traced audit from the record alone.
type TraceRecord struct {
	Player       int      `json:"player"`
	SnapshotHash string   `json:"snapshot_hash"`
	Snapshot     [][]byte `json:"snapshot,omitempty"`
	RemaskProof  []byte   `json:"remask_proof,omitempty"`
}

// AuditRecord is the durable record of a finished hand: the event
// chain, the shuffle trace commitments, and which masking layers came
// off which slots. File or wire encoding beyond JSON is a collaborator
// concern.
type AuditRecord struct {
	HandID       string        `json:"hand_id"`
	FinalPhase   string        `json:"final_phase"`
	Events       []Block       `json:"events"`
	ShuffleTrace []TraceRecord `json:"shuffle_trace"`
	Layers       map[int][]int `json:"layers"` // slot -> players peeled
	Board        []string      `json:"board,omitempty"`
	Payouts      map[int]uint64 `json:"payouts,omitempty"`
}

// Marshal encodes the record as JSON.
func (r AuditRecord) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, xerrors.Errorf("marshaling audit record: %w", err)
	}
	return data, nil
}
