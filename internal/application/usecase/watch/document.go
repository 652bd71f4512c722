package watch

import (
	"encoding/json"

	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// InstrumentDoc is the wire form of one snapshot entry, used by recorders and
// the websocket feed.
type InstrumentDoc struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Direction string  `json:"direction"`
	DrawState int     `json:"draw_state"`
	Changed   bool    `json:"changed"`
}

type SnapshotDoc struct {
	RunID       string          `json:"run_id"`
	Ts          int64           `json:"ts"`
	Instruments []InstrumentDoc `json:"instruments"`
}

func newSnapshotDoc(runID string, ts int64, entries []domain.Instrument) SnapshotDoc {
	doc := SnapshotDoc{
		RunID:       runID,
		Ts:          ts,
		Instruments: make([]InstrumentDoc, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Instruments = append(doc.Instruments, InstrumentDoc{
			Symbol:    e.Symbol.String(),
			Price:     e.Price,
			Direction: e.Direction.String(),
			DrawState: e.DrawState,
			Changed:   e.Changed,
		})
	}
	return doc
}

func (d SnapshotDoc) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
