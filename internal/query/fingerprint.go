package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for query fingerprints. Version suffix enables future
// algorithm migration without colliding with old cache entries.
const fingerprintDomain = "loam/query/v1"

// Fingerprint computes a stable content hash of the query structure,
// suitable as a plan-cache key. Parameter values are excluded - only the
// parameter arity participates - so two queries differing solely in
// bound values share a fingerprint and therefore a plan.
func (q *Query) Fingerprint() (string, error) {
	bindings := make([]any, len(q.Bindings))
	for i, b := range q.Bindings {
		bindings[i] = b
	}

	orderBys := make([]any, len(q.OrderBys))
	for i, clause := range q.OrderBys {
		items := make([]any, len(clause.Items))
		for j, item := range clause.Items {
			items[j] = map[string]any{
				"dir":  dirTermShape(item.Dir),
				"expr": exprShape(item.Expr),
			}
		}
		orderBys[i] = items
	}

	obj := map[string]any{
		"source":    q.Source,
		"bindings":  bindings,
		"order_bys": orderBys,
		"params":    int64(q.Params.Len()),
	}

	data, err := marshalStable(obj)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(fingerprintDomain, data), nil
}

func dirTermShape(d DirTerm) any {
	switch dt := d.(type) {
	case Direction:
		return dt.String()
	case DirParam:
		return map[string]any{"param": int64(dt.Index)}
	default:
		return fmt.Sprintf("%T", d)
	}
}

func exprShape(e Expr) any {
	switch ex := e.(type) {
	case Field:
		return map[string]any{"binding": int64(ex.Binding), "field": ex.Name}
	case Param:
		return map[string]any{"param": int64(ex.Index)}
	default:
		return fmt.Sprintf("%T", e)
	}
}

// hashWithDomain computes SHA-256 with domain separation. The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
