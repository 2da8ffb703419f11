package extract

import "github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"

// Line is one accepted order line.
type Line struct {
	Product   catalog.Product
	Quantity  int
	LineTotal int64
}

// Rejection is a segment the pipeline could not turn into a line.
type Rejection struct {
	Segment Segment
	Reason  string
}

// Assembly is the outcome of running the pipeline over one message.
type Assembly struct {
	Lines    []Line
	Rejected []Rejection
	Total    int64
}

// Assemble runs the matcher and quantity extractor over each segment
// independently and prices the accepted lines. One bad segment never
// aborts its siblings. A missing quantity defaults to one only when the
// segment contains no numeral or number word at all; a numeral that is
// present but unusable rejects the segment. Pure function, no side
// effects.
func Assemble(segments []Segment, m *Matcher, cat *catalog.Catalog) Assembly {
	var out Assembly
	for _, seg := range segments {
		norm := Normalize(seg.Text)

		match := m.Match(norm)
		if !match.Resolved() {
			out.Rejected = append(out.Rejected, Rejection{Segment: seg, Reason: match.Reason})
			continue
		}
		product, ok := cat.ByCode(match.Code)
		if !ok {
			// Matcher codes come from the same catalog; treat a miss
			// like an unrecognized product.
			out.Rejected = append(out.Rejected, Rejection{Segment: seg, Reason: ReasonNoProduct})
			continue
		}

		qty := Quantity(norm)
		switch {
		case qty.Resolved():
		case !qty.Present:
			qty.Value = 1
		default:
			out.Rejected = append(out.Rejected, Rejection{Segment: seg, Reason: qty.Reason})
			continue
		}

		line := Line{
			Product:   product,
			Quantity:  qty.Value,
			LineTotal: product.UnitPrice * int64(qty.Value),
		}
		out.Lines = append(out.Lines, line)
		out.Total += line.LineTotal
	}
	return out
}
