package domain

import "context"

type PriceListRepository interface {
	// Write paths
	UpsertPriceList(ctx context.Context, pl PriceList) error
	AppendImportAudit(ctx context.Context, a ImportAudit) error

	// Read paths
	GetPriceList(ctx context.Context, id string) (PriceList, error)
	ListPriceLists(ctx context.Context, propertyID string) ([]PriceList, error)
}

// PriceListParser is the contract for the external extraction service. One
// transport implementation serves every file type; the engine only validates
// the parser's output, never the raw file. The returned document is loose
// JSON the normalizer maps into an ImportPreview.
type PriceListParser interface {
	Parse(ctx context.Context, fileName string, ft FileType, content []byte) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ImportAudit records one import decision for traceability. Rejections carry
// the operator's free-text reason.
type ImportAudit struct {
	SessionID   string
	PriceListID string
	FileName    string
	Action      string // parsed|approved|rejected
	Reason      string
	Actor       string
}
