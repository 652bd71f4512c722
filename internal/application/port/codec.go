package port

import "github.com/ascai1/oanda-wallpaper/internal/domain"

// Codec turns subscriptions into request documents and responses into values.
type Codec interface {
	EncodeSubscription(symbols []domain.Symbol) ([]byte, error)
	DecodeSessionID(doc []byte) (uint64, error)
	DecodePriceList(doc []byte) ([]domain.Quote, error)
}
