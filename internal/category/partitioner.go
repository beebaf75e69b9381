// Package category assigns spending categories with ordered substring rules,
// so the matcher only ever compares debits and receipts of the same category.
package category

import (
	"strings"

	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// Partitioner evaluates an ordered rule list against transaction
// descriptions. First matching rule wins; evaluation is top-to-bottom and
// deterministic. Every transaction receives exactly one category: anything
// no rule claims falls into the fallback category.
type Partitioner struct {
	fallback       string
	rules          []config.CategoryRule
	receiptSources map[string][]string
}

// NewPartitioner creates a partitioner from configuration.
func NewPartitioner(cfg *config.Config) *Partitioner {
	return &Partitioner{
		rules:          cfg.Rules,
		fallback:       cfg.FallbackCategory,
		receiptSources: cfg.ReceiptSources,
	}
}

// Categorize returns the category for a single transaction.
func (p *Partitioner) Categorize(txn model.Transaction) string {
	desc := strings.ToUpper(txn.Description)
	for _, rule := range p.rules {
		if rule.Kind != "" && rule.Kind != string(txn.Kind) {
			continue
		}
		for _, sub := range rule.Substrings {
			// An empty substring matches every description, which lets a
			// rule act as a kind-scoped catch-all.
			if strings.Contains(desc, strings.ToUpper(sub)) {
				return rule.Category
			}
		}
	}
	return p.fallback
}

// Apply returns a copy of the transactions with Category populated.
// Transactions that already carry a category (overrides, manual entries)
// keep it.
func (p *Partitioner) Apply(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, txn := range txns {
		if txn.Category == "" {
			txn.Category = p.Categorize(txn)
		}
		out[i] = txn
	}
	return out
}

// PartitionDebits groups categorized debits by category, preserving input
// order within each group.
func (p *Partitioner) PartitionDebits(txns []model.Transaction) map[string][]model.Transaction {
	groups := make(map[string][]model.Transaction)
	for _, txn := range txns {
		if txn.Kind != model.KindDebit {
			continue
		}
		groups[txn.Category] = append(groups[txn.Category], txn)
	}
	return groups
}

// ReceiptPool collects the receipts belonging to a category's mapped
// sources. The second return is false when the category has no mapped
// receipt source at all, in which case matching is never attempted.
func (p *Partitioner) ReceiptPool(cat string, receipts []model.Receipt) ([]model.Receipt, bool) {
	sources, ok := p.receiptSources[cat]
	if !ok || len(sources) == 0 {
		return nil, false
	}

	wanted := make(map[string]bool, len(sources))
	for _, s := range sources {
		wanted[strings.ToLower(s)] = true
	}

	var pool []model.Receipt
	for _, r := range receipts {
		if wanted[strings.ToLower(r.Source)] {
			pool = append(pool, r)
		}
	}
	return pool, true
}
