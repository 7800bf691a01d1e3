package pixhuff

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Phase names a stage of the estimation pipeline.
type Phase byte

const (
	PhaseReceived Phase = iota
	PhaseFrequencies
	PhaseTree
	PhaseMerge
	PhaseTreeDone
	PhaseCodes
	PhaseSizing
)

var phaseNames = [...]string{
	"received",
	"frequencies",
	"tree",
	"merge",
	"tree-done",
	"codes",
	"sizing",
}

// String returns the wire name of this Phase.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", byte(p))
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(str string) (Phase, error) {
	for index, name := range phaseNames {
		if name == str {
			return Phase(index), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", str)
}

var _ fmt.Stringer = Phase(0)

// MessageKind distinguishes the three shapes of Message.
type MessageKind byte

const (
	// KindProgress is advisory; it may be dropped without harm.
	KindProgress MessageKind = iota

	// KindResult is the terminal message of a successful run.
	KindResult

	// KindError is the terminal message of a failed run.
	KindError
)

// Message is one notification from a running estimation to its host.  A run
// produces any number of progress messages followed by exactly one terminal
// message, either a result or an error.  A cancelled run produces no terminal
// message.
type Message struct {
	Kind   MessageKind
	Phase  Phase
	Detail string
	Result Result
	Err    error
}

// ProgressMessage constructs a KindProgress message.
func ProgressMessage(phase Phase, detail string) Message {
	return Message{Kind: KindProgress, Phase: phase, Detail: detail}
}

// ResultMessage constructs a KindResult message.
func ResultMessage(res Result) Message {
	return Message{Kind: KindResult, Result: res}
}

// ErrorMessage constructs a KindError message.
func ErrorMessage(err error) Message {
	return Message{Kind: KindError, Err: err}
}

// IsTerminal returns true for result and error messages.
func (m Message) IsTerminal() bool {
	return m.Kind != KindProgress
}

// String returns a one-line, human-readable form of this Message.
func (m Message) String() string {
	switch m.Kind {
	case KindResult:
		return fmt.Sprintf("done: %d bytes → %d bytes", m.Result.OriginalBytes, m.Result.CompressedBytes)
	case KindError:
		return fmt.Sprintf("error: %v", m.Err)
	}
	if m.Detail == "" {
		return m.Phase.String()
	}
	return m.Phase.String() + ": " + m.Detail
}

type wireMessage struct {
	Phase           *string `json:"phase,omitempty"`
	Detail          *string `json:"detail,omitempty"`
	CompressedBytes *int64  `json:"compressedBytes,omitempty"`
	OriginalBytes   *int64  `json:"originalBytes,omitempty"`
	ErrorDetail     *string `json:"errorDetail,omitempty"`
}

// MarshalJSON fulfills json.Marshaler.  Progress messages become
// {"phase", "detail"}, results become {"compressedBytes", "originalBytes"},
// and errors become {"errorDetail"}.
func (m Message) MarshalJSON() ([]byte, error) {
	var w wireMessage
	switch m.Kind {
	case KindProgress:
		phase := m.Phase.String()
		w.Phase = &phase
		if m.Detail != "" {
			w.Detail = &m.Detail
		}
	case KindResult:
		w.CompressedBytes = &m.Result.CompressedBytes
		w.OriginalBytes = &m.Result.OriginalBytes
	case KindError:
		detail := "<nil>"
		if m.Err != nil {
			detail = m.Err.Error()
		}
		w.ErrorDetail = &detail
	default:
		return nil, fmt.Errorf("unknown message kind %d", byte(m.Kind))
	}
	return json.Marshal(w)
}

// UnmarshalJSON fulfills json.Unmarshaler.  The error of a decoded error
// message carries only its text.
func (m *Message) UnmarshalJSON(raw []byte) error {
	var w wireMessage
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}

	switch {
	case w.ErrorDetail != nil:
		*m = ErrorMessage(errors.New(*w.ErrorDetail))

	case w.CompressedBytes != nil || w.OriginalBytes != nil:
		var res Result
		if w.CompressedBytes != nil {
			res.CompressedBytes = *w.CompressedBytes
		}
		if w.OriginalBytes != nil {
			res.OriginalBytes = *w.OriginalBytes
		}
		*m = ResultMessage(res)

	case w.Phase != nil:
		phase, err := ParsePhase(*w.Phase)
		if err != nil {
			return err
		}
		var detail string
		if w.Detail != nil {
			detail = *w.Detail
		}
		*m = ProgressMessage(phase, detail)

	default:
		return fmt.Errorf("unrecognized message: %s", raw)
	}
	return nil
}

var (
	_ json.Marshaler   = Message{}
	_ json.Unmarshaler = (*Message)(nil)
)
