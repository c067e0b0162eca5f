package symbols

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/logger"
)

const (
	// DefaultSearchLimit is used when Search gets a non-positive limit
	DefaultSearchLimit = 10
	// MaxSearchLimit caps a single search
	MaxSearchLimit = 100
)

// Source provides the reference symbol list
type Source interface {
	FetchSymbols(ctx context.Context) ([]contracts.SymbolInfo, error)
}

// Directory is an in-memory full-text index of tradable symbols
// ⭐ SSOT: 종목 코드 확인/검색은 여기서만
type Directory struct {
	index bleve.Index
}

// symbolDoc is the indexed form of one symbol
type symbolDoc struct {
	Symbol   string `json:"symbol"`
	Key      string `json:"key"` // lower-cased symbol, keyword analyzed
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

var searchFields = []string{"symbol", "name", "exchange", "type"}

// Load fetches the symbol list and indexes it
func Load(ctx context.Context, source Source, log *logger.Logger) (*Directory, error) {
	infos, err := source.FetchSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load symbol directory: %w", err)
	}

	d, err := New(infos)
	if err != nil {
		return nil, err
	}

	count, _ := d.Count()
	log.WithFields(map[string]interface{}{
		"fetched": len(infos),
		"indexed": count,
	}).Info("Symbol directory loaded")

	return d, nil
}

// New indexes the enabled symbols. Duplicate symbols keep the last entry.
func New(infos []contracts.SymbolInfo) (*Directory, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for _, info := range infos {
		symbol := normalize(info.Symbol)
		if symbol == "" || !info.IsEnabled {
			continue
		}

		doc := symbolDoc{
			Symbol:   symbol,
			Key:      strings.ToLower(symbol),
			Name:     info.Name,
			Exchange: info.Exchange,
			Type:     info.Type,
		}
		if err := batch.Index(symbol, doc); err != nil {
			return nil, fmt.Errorf("failed to add %s to batch: %w", symbol, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	return &Directory{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	keyField := bleve.NewKeywordFieldMapping()
	keyField.Store = false
	docMapping.AddFieldMappingsAt("key", keyField)

	symbolField := bleve.NewKeywordFieldMapping()
	symbolField.Store = true
	docMapping.AddFieldMappingsAt("symbol", symbolField)

	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	docMapping.AddFieldMappingsAt("name", textField)

	for _, name := range []string{"exchange", "type"} {
		stored := bleve.NewKeywordFieldMapping()
		stored.Store = true
		docMapping.AddFieldMappingsAt(name, stored)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Contains reports whether symbol is in the directory
func (d *Directory) Contains(symbol string) (bool, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return false, nil
	}

	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{symbol}))
	req.Size = 1

	res, err := d.index.Search(req)
	if err != nil {
		return false, fmt.Errorf("symbol lookup: %w", err)
	}
	return res.Total > 0, nil
}

// Search finds symbols by exact symbol, symbol prefix or company name
func (d *Directory) Search(query string, limit int) ([]contracts.SymbolInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []contracts.SymbolInfo{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	key := strings.ToLower(query)

	exact := bleve.NewTermQuery(key)
	exact.SetField("key")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(key)
	prefix.SetField("key")
	prefix.SetBoost(5.0)

	name := bleve.NewMatchQuery(query)
	name.SetField("name")
	name.SetBoost(3.0)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(exact, prefix, name))
	req.Fields = searchFields
	req.Size = limit

	res, err := d.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("symbol search: %w", err)
	}

	out := make([]contracts.SymbolInfo, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, contracts.SymbolInfo{
			Symbol:    field(hit.Fields, "symbol"),
			Name:      field(hit.Fields, "name"),
			Exchange:  field(hit.Fields, "exchange"),
			Type:      field(hit.Fields, "type"),
			IsEnabled: true,
		})
	}
	return out, nil
}

// Count returns the number of indexed symbols
func (d *Directory) Count() (uint64, error) {
	return d.index.DocCount()
}

// Close releases the index
func (d *Directory) Close() error {
	return d.index.Close()
}

func field(fields map[string]interface{}, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
