package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Gokulkannan3/stock-manager/internal/domain"
	"github.com/Gokulkannan3/stock-manager/internal/domain/entity"
)

// GST rates are fixed: CGST 9%, SGST 9%, IGST 18%.
var (
	rateCGST = decimal.NewFromFloat(0.09)
	rateSGST = decimal.NewFromFloat(0.09)
	rateIGST = decimal.NewFromFloat(0.18)

	hundred = decimal.NewFromInt(100)
)

// Compute turns a draft into the invoice totals breakdown (domain service, no
// side effects). Every step runs at full decimal precision; only the final net
// is rounded, half away from zero, to whole currency units.
//
// Order of operations is fixed and load-bearing:
//
//	per line: qty = cases*per_case; gross = qty*rate; final = gross - discount%
//	subtotal -> +packing% -> +extra taxable (additive) -> -additional discount%
//	-> +CGST/SGST/IGST -> round -> round_off = grand - net
//
// Returns ErrArithmetic for negative rates/percents, discounts outside
// [0,100], or non-positive line quantities.
func Compute(draft entity.InvoiceDraft) (entity.InvoiceTotals, error) {
	var t entity.InvoiceTotals
	if err := validate(draft); err != nil {
		return t, err
	}

	subtotal := decimal.Zero
	totalCases := 0
	for _, line := range draft.Lines {
		qty := decimal.NewFromInt(int64(line.Cases) * int64(line.Product.PerCase))
		gross := qty.Mul(line.Product.RatePerCase)
		lineDiscount := gross.Mul(line.DiscountPercent).Div(hundred)
		subtotal = subtotal.Add(gross.Sub(lineDiscount))
		totalCases += line.Cases
	}

	adj := draft.Adjustments
	packing := decimal.Zero
	if adj.ApplyPackingFee {
		packing = subtotal.Mul(adj.PackingPercent).Div(hundred)
	}
	withPacking := subtotal.Add(packing)

	// The manual taxable amount is added on top of subtotal+packing, never
	// substituted for it.
	taxable := withPacking
	if adj.ExtraTaxableAmount != nil {
		taxable = withPacking.Add(*adj.ExtraTaxableAmount)
	}

	additionalDiscount := taxable.Mul(adj.AdditionalDiscountPercent).Div(hundred)
	net := taxable.Sub(additionalDiscount)

	cgst, sgst, igst := decimal.Zero, decimal.Zero, decimal.Zero
	if adj.ApplyCGST {
		cgst = net.Mul(rateCGST)
	}
	if adj.ApplySGST {
		sgst = net.Mul(rateSGST)
	}
	if adj.ApplyIGST {
		igst = net.Mul(rateIGST)
	}
	totalTax := cgst.Add(sgst).Add(igst)

	netWithTax := net.Add(totalTax)
	grand := netWithTax.Round(0)

	t = entity.InvoiceTotals{
		Subtotal:            subtotal,
		PackingCharges:      packing,
		SubtotalWithPacking: withPacking,
		TaxableUsed:         taxable,
		AdditionalDiscount:  additionalDiscount,
		NetBeforeTax:        net,
		CGST:                cgst,
		SGST:                sgst,
		IGST:                igst,
		TotalTax:            totalTax,
		RoundOff:            grand.Sub(netWithTax),
		GrandTotal:          grand,
		TotalCases:          totalCases,
	}
	return t, nil
}

func validate(draft entity.InvoiceDraft) error {
	for _, line := range draft.Lines {
		if line.Cases <= 0 || line.Product.PerCase <= 0 {
			return domain.ErrArithmetic
		}
		if line.Product.RatePerCase.IsNegative() {
			return domain.ErrArithmetic
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(hundred) {
			return domain.ErrArithmetic
		}
	}
	adj := draft.Adjustments
	if adj.ApplyPackingFee && adj.PackingPercent.IsNegative() {
		return domain.ErrArithmetic
	}
	if adj.AdditionalDiscountPercent.IsNegative() || adj.AdditionalDiscountPercent.GreaterThan(hundred) {
		return domain.ErrArithmetic
	}
	if adj.ExtraTaxableAmount != nil && adj.ExtraTaxableAmount.IsNegative() {
		return domain.ErrArithmetic
	}
	return nil
}
