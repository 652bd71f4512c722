package jsoncodec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// subscription is the session request document: {"prices":["EUR_USD",...]}
type subscription struct {
	Prices []string `json:"prices"`
}

type sessionResp struct {
	SessionID *json.Number `json:"sessionId"`
}

type pollResp struct {
	Prices *[]json.RawMessage `json:"prices"`
}

type priceResp struct {
	Instrument *string  `json:"instrument"`
	Bid        *float64 `json:"bid"`
	Ask        *float64 `json:"ask"`
}

// Codec implements port.Codec for the service's JSON documents.
type Codec struct{}

func New() *Codec { return &Codec{} }

func (c *Codec) EncodeSubscription(symbols []domain.Symbol) ([]byte, error) {
	return json.Marshal(subscription{Prices: domain.SymbolStrings(symbols)})
}

func (c *Codec) DecodeSessionID(doc []byte) (uint64, error) {
	var resp sessionResp
	if err := json.Unmarshal(doc, &resp); err != nil {
		return 0, fmt.Errorf("%w: %w", port.ErrParse, err)
	}
	if resp.SessionID == nil {
		return 0, fmt.Errorf("%w: sessionId", port.ErrMissingField)
	}
	id, err := strconv.ParseUint(resp.SessionID.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: sessionId %q: %w", port.ErrParse, resp.SessionID.String(), err)
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: sessionId is zero", port.ErrMissingField)
	}
	return id, nil
}

// DecodePriceList decodes a poll response. Elements missing an instrument,
// bid or ask are skipped rather than failing the whole round.
func (c *Codec) DecodePriceList(doc []byte) ([]domain.Quote, error) {
	var resp pollResp
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrParse, err)
	}
	if resp.Prices == nil {
		return nil, fmt.Errorf("%w: no prices array", port.ErrParse)
	}

	out := make([]domain.Quote, 0, len(*resp.Prices))
	for _, raw := range *resp.Prices {
		var p priceResp
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if p.Instrument == nil || p.Bid == nil || p.Ask == nil {
			continue
		}
		out = append(out, domain.Quote{
			Symbol: domain.Symbol(*p.Instrument),
			Bid:    *p.Bid,
			Ask:    *p.Ask,
		})
	}
	return out, nil
}

var _ port.Codec = (*Codec)(nil)
